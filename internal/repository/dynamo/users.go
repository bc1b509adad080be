package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"storefront_back_end/internal/models"
)

// UserStore utilise l'email comme clé de partition
type UserStore struct {
	client API
	table  string
}

func NewUserStore(client API, table string) *UserStore {
	return &UserStore{client: client, table: table}
}

func (s *UserStore) CreateUser(ctx context.Context, user models.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("encodage utilisateur: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return models.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insertion utilisateur: %w", err)
	}
	return nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return models.User{}, fmt.Errorf("lecture utilisateur: %w", err)
	}
	if out.Item == nil {
		return models.User{}, models.ErrUserNotFound
	}

	var u models.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return models.User{}, fmt.Errorf("décodage utilisateur: %w", err)
	}
	return u, nil
}
