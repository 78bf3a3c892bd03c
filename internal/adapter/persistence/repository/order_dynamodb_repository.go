package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultOrdersTableName = "orders"
	ordersSessionIDIndex   = "session_id-index"
)

type orderItem struct {
	ID              string `dynamodbav:"id"`
	CustomerPhone   string `dynamodbav:"customer_phone"`
	SessionID       string `dynamodbav:"session_id"`
	SkuID           string `dynamodbav:"sku_id"`
	Date            string `dynamodbav:"date"`
	Status          int    `dynamodbav:"status"`
	ShippingName    string `dynamodbav:"shipping_name,omitempty"`
	ShippingAddress string `dynamodbav:"shipping_address,omitempty"`

	ConversionRateMobToCurrency float64 `dynamodbav:"conversion_rate_mob_to_currency"`
}

// OrderDynamoRepository persists Order entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: session_id-index (PK: session_id)
//
// The SKU row keeps an active_orders counter. CreateForSku inserts the order
// and increments the counter in one transaction, conditional on
// active_orders < quantity, so the last unit cannot be sold twice. Updating
// an order to CANCELLED decrements the counter in the same fashion, freeing
// the unit.

type OrderDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
	skusTable string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client) *OrderDynamoRepository {
	return &OrderDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("ORDERS_TABLE", defaultOrdersTableName),
		skusTable: getenvDefault("SKUS_TABLE", defaultSkusTableName),
	}
}

func (r *OrderDynamoRepository) CreateForSku(ctx context.Context, o entities.Order, sku entities.Sku) (entities.Order, error) {
	o.Date = time.Now().UTC()
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                av,
					ConditionExpression: aws.String("attribute_not_exists(#id)"),
					ExpressionAttributeNames: map[string]string{
						"#id": "id",
					},
				},
			},
			{
				Update: &types.Update{
					TableName: aws.String(r.skusTable),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: sku.ID},
					},
					UpdateExpression:    aws.String("SET #active = if_not_exists(#active, :zero) + :one"),
					ConditionExpression: aws.String("attribute_exists(#id) AND (attribute_not_exists(#active) OR #active < :quantity)"),
					ExpressionAttributeNames: map[string]string{
						"#id":     "id",
						"#active": "active_orders",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":zero":     &types.AttributeValueMemberN{Value: "0"},
						":one":      &types.AttributeValueMemberN{Value: "1"},
						":quantity": &types.AttributeValueMemberN{Value: strconv.Itoa(sku.Quantity)},
					},
				},
			},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) == 2 &&
			reasonIsConditionalCheckFailed(tce.CancellationReasons[1]) {
			return entities.Order{}, interfaces.ErrSkuSoldOut
		}
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetBySession(ctx context.Context, sessionID string) (entities.Order, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(ordersSessionIDIndex),
		KeyConditionExpression: aws.String("#session_id = :session_id"),
		ExpressionAttributeNames: map[string]string{
			"#session_id": "session_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":session_id": &types.AttributeValueMemberS{Value: sessionID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Items) == 0 {
		return entities.Order{}, nil
	}
	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func (r *OrderDynamoRepository) Update(ctx context.Context, o entities.Order) (entities.Order, error) {
	previous, err := r.getByID(ctx, o.ID)
	if err != nil {
		return entities.Order{}, err
	}

	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}
	put := types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(r.tableName),
			Item:                av,
			ConditionExpression: aws.String("attribute_exists(#id)"),
			ExpressionAttributeNames: map[string]string{
				"#id": "id",
			},
		},
	}

	// Cancelling releases the SKU unit in the same transaction.
	releasesUnit := previous.ID != "" && previous.Status.Active() && o.Status == entities.OrderStatusCancelled
	if !releasesUnit {
		_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{put},
		})
		if err != nil {
			return entities.Order{}, err
		}
		return o, nil
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			put,
			{
				Update: &types.Update{
					TableName: aws.String(r.skusTable),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: o.SkuID},
					},
					UpdateExpression:    aws.String("SET #active = #active - :one"),
					ConditionExpression: aws.String("attribute_exists(#id) AND #active >= :one"),
					ExpressionAttributeNames: map[string]string{
						"#id":     "id",
						"#active": "active_orders",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":one": &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		},
	})
	if err != nil {
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) CountActiveBySku(ctx context.Context, skuID string) (int, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.skusTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: skuID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, err
	}
	if len(out.Item) == 0 {
		return 0, nil
	}
	var it struct {
		ActiveOrders int `dynamodbav:"active_orders"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return 0, err
	}
	return it.ActiveOrders, nil
}

func (r *OrderDynamoRepository) getByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}
	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func toOrderItem(o entities.Order) orderItem {
	return orderItem{
		ID:              o.ID,
		CustomerPhone:   o.CustomerPhone,
		SessionID:       o.SessionID,
		SkuID:           o.SkuID,
		Date:            timeToString(o.Date),
		Status:          int(o.Status),
		ShippingName:    o.ShippingName,
		ShippingAddress: o.ShippingAddress,

		ConversionRateMobToCurrency: o.ConversionRateMobToCurrency,
	}
}

func fromOrderItem(it orderItem) entities.Order {
	return entities.Order{
		ID:              it.ID,
		CustomerPhone:   it.CustomerPhone,
		SessionID:       it.SessionID,
		SkuID:           it.SkuID,
		Date:            parseTime(it.Date),
		Status:          entities.OrderStatus(it.Status),
		ShippingName:    it.ShippingName,
		ShippingAddress: it.ShippingAddress,

		ConversionRateMobToCurrency: it.ConversionRateMobToCurrency,
	}
}
