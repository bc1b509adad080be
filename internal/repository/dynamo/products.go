package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"storefront_back_end/internal/models"
)

// maxTransactItems est la limite de TransactWriteItems
const maxTransactItems = 100

type ProductStore struct {
	client API
	table  string
	now    func() time.Time
}

func NewProductStore(client API, table string) *ProductStore {
	return &ProductStore{client: client, table: table, now: time.Now}
}

func productKey(key models.ProductKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: key.ID},
		"name": &types.AttributeValueMemberS{Value: key.Name},
	}
}

func (s *ProductStore) GetProduct(ctx context.Context, key models.ProductKey) (models.Product, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       productKey(key),
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("lecture produit %s: %w", key, err)
	}
	if out.Item == nil {
		return models.Product{}, models.ErrProductNotFound
	}

	var p models.Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return models.Product{}, fmt.Errorf("décodage produit %s: %w", key, err)
	}
	return p, nil
}

func (s *ProductStore) CreateProduct(ctx context.Context, p models.Product) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("encodage produit: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return models.ErrProductExists
	}
	if err != nil {
		return fmt.Errorf("insertion produit: %w", err)
	}
	return nil
}

func (s *ProductStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(s.table)})
}

func (s *ProductStore) FindByFingerprint(ctx context.Context, fp models.ProductFingerprint) ([]models.Product, error) {
	return s.scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.table),
		FilterExpression: aws.String("#name = :name AND #brand = :brand AND #price = :price AND #description = :description"),
		ExpressionAttributeNames: map[string]string{
			"#name":        "name",
			"#brand":       "brand",
			"#price":       "price",
			"#description": "description",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":        &types.AttributeValueMemberS{Value: fp.Name},
			":brand":       &types.AttributeValueMemberS{Value: fp.Brand},
			":price":       &types.AttributeValueMemberN{Value: strconv.FormatFloat(fp.Price, 'f', -1, 64)},
			":description": &types.AttributeValueMemberS{Value: fp.Description},
		},
	})
}

func (s *ProductStore) scan(ctx context.Context, input *dynamodb.ScanInput) ([]models.Product, error) {
	var products []models.Product

	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan produits: %w", err)
		}

		var batch []models.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("décodage produits: %w", err)
		}
		products = append(products, batch...)
	}

	return products, nil
}

func (s *ProductStore) decrementUpdate(key models.ProductKey, qty int) (map[string]types.AttributeValue, *string, *string, map[string]types.AttributeValue) {
	return productKey(key),
		aws.String("SET stock = stock - :qty, updatedAt = :now"),
		aws.String("stock >= :qty"),
		map[string]types.AttributeValue{
			":qty": &types.AttributeValueMemberN{Value: strconv.Itoa(qty)},
			":now": &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339Nano)},
		}
}

// DecrementStock applique stock = stock - qty à condition que stock >= qty
func (s *ProductStore) DecrementStock(ctx context.Context, key models.ProductKey, qty int) error {
	k, update, condition, values := s.decrementUpdate(key, qty)

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       k,
		UpdateExpression:          update,
		ConditionExpression:       condition,
		ExpressionAttributeValues: values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return models.ErrStockConditionFailed
	}
	if err != nil {
		return fmt.Errorf("mise à jour stock %s: %w", key, err)
	}
	return nil
}

func (s *ProductStore) IncrementStock(ctx context.Context, key models.ProductKey, qty int) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 productKey(key),
		UpdateExpression:    aws.String("SET stock = stock + :qty, updatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":qty": &types.AttributeValueMemberN{Value: strconv.Itoa(qty)},
			":now": &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339Nano)},
		},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return models.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("restitution stock %s: %w", key, err)
	}
	return nil
}

func (s *ProductStore) MaxTransactionItems() int {
	return maxTransactItems
}

// DecrementStocks applique toutes les décrémentations dans une seule transaction :
// une condition en échec annule l'ensemble.
func (s *ProductStore) DecrementStocks(ctx context.Context, items []models.ProductQuantity) error {
	if len(items) > maxTransactItems {
		return fmt.Errorf("transaction de %d produits: limite %d", len(items), maxTransactItems)
	}

	writes := make([]types.TransactWriteItem, 0, len(items))
	for _, item := range items {
		k, update, condition, values := s.decrementUpdate(item.Key, item.Quantity)
		writes = append(writes, types.TransactWriteItem{
			Update: &types.Update{
				TableName:                 aws.String(s.table),
				Key:                       k,
				UpdateExpression:          update,
				ConditionExpression:       condition,
				ExpressionAttributeValues: values,
			},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		// Les raisons d'annulation suivent l'ordre des éléments de la transaction
		for i, reason := range canceled.CancellationReasons {
			if i >= len(items) {
				break
			}
			switch aws.ToString(reason.Code) {
			case "ConditionalCheckFailed":
				return &models.StockCommitError{Key: items[i].Key, Err: models.ErrStockConditionFailed}
			case "TransactionConflict":
				return &models.StockCommitError{Key: items[i].Key, Err: models.ErrStockContention}
			}
		}
	}
	return fmt.Errorf("transaction stock: %w", err)
}
