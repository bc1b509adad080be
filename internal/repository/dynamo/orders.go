package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"storefront_back_end/internal/models"
)

type OrderStore struct {
	client API
	table  string
}

func NewOrderStore(client API, table string) *OrderStore {
	return &OrderStore{client: client, table: table}
}

func (s *OrderStore) CreateOrder(ctx context.Context, order models.CartOrder) error {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("encodage achat: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("insertion achat %s: %w", order.ID, err)
	}
	return nil
}
