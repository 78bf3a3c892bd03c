package repository

import (
	"context"
	"errors"
	"strconv"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultCustomersTableName = "customers"
	defaultPrefsTableName     = "customer_store_preferences"
	defaultRefundsTableName   = "customer_drop_refunds"
)

type customerItem struct {
	PhoneNumber         string `dynamodbav:"phone_number"`
	ReceivedStickerPack bool   `dynamodbav:"received_sticker_pack"`
}

type prefsItem struct {
	CustomerPhone string `dynamodbav:"customer_phone"`
	StoreID       string `dynamodbav:"store_id"`
	AllowsContact bool   `dynamodbav:"allows_contact"`
}

// CustomerDynamoRepository persists customers, contact preferences and the
// per-drop fee-refund allowance in DynamoDB.
//
// Table requirements:
//   - customers: PK phone_number (string)
//   - customer_store_preferences: PK customer_phone, SK store_id
//   - customer_drop_refunds: PK customer_phone, SK drop_id
//
// ClaimFeeRefund increments number_of_times_refunded with a conditional
// update so the cap holds under concurrent refunds.

type CustomerDynamoRepository struct {
	client       *dynamodb.Client
	customersTbl string
	prefsTbl     string
	refundsTbl   string
}

var _ interfaces.ICustomerRepository = (*CustomerDynamoRepository)(nil)

func NewCustomerDynamoRepository(ddb *dynamodb.Client) *CustomerDynamoRepository {
	return &CustomerDynamoRepository{
		client:       ddb,
		customersTbl: getenvDefault("CUSTOMERS_TABLE", defaultCustomersTableName),
		prefsTbl:     getenvDefault("PREFERENCES_TABLE", defaultPrefsTableName),
		refundsTbl:   getenvDefault("REFUNDS_TABLE", defaultRefundsTableName),
	}
}

func (r *CustomerDynamoRepository) GetOrCreate(ctx context.Context, phone string) (entities.Customer, error) {
	av, err := attributevalue.MarshalMap(customerItem{PhoneNumber: phone})
	if err != nil {
		return entities.Customer{}, err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.customersTbl),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#phone)"),
		ExpressionAttributeNames: map[string]string{
			"#phone": "phone_number",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if !errors.As(err, &cfe) {
			return entities.Customer{}, err
		}
		out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(r.customersTbl),
			Key: map[string]types.AttributeValue{
				"phone_number": &types.AttributeValueMemberS{Value: phone},
			},
			ConsistentRead: aws.Bool(true),
		})
		if err != nil {
			return entities.Customer{}, err
		}
		var it customerItem
		if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
			return entities.Customer{}, err
		}
		return entities.Customer{PhoneNumber: it.PhoneNumber, ReceivedStickerPack: it.ReceivedStickerPack}, nil
	}
	return entities.Customer{PhoneNumber: phone}, nil
}

func (r *CustomerDynamoRepository) GetStorePreferences(ctx context.Context, phone, storeID string) (entities.CustomerStorePreferences, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.prefsTbl),
		Key: map[string]types.AttributeValue{
			"customer_phone": &types.AttributeValueMemberS{Value: phone},
			"store_id":       &types.AttributeValueMemberS{Value: storeID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.CustomerStorePreferences{}, false, err
	}
	if len(out.Item) == 0 {
		return entities.CustomerStorePreferences{}, false, nil
	}
	var it prefsItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.CustomerStorePreferences{}, false, err
	}
	return entities.CustomerStorePreferences{
		CustomerPhone: it.CustomerPhone,
		StoreID:       it.StoreID,
		AllowsContact: it.AllowsContact,
	}, true, nil
}

func (r *CustomerDynamoRepository) UpsertStorePreferences(ctx context.Context, prefs entities.CustomerStorePreferences) (entities.CustomerStorePreferences, error) {
	av, err := attributevalue.MarshalMap(prefsItem{
		CustomerPhone: prefs.CustomerPhone,
		StoreID:       prefs.StoreID,
		AllowsContact: prefs.AllowsContact,
	})
	if err != nil {
		return entities.CustomerStorePreferences{}, err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.prefsTbl),
		Item:      av,
	})
	if err != nil {
		return entities.CustomerStorePreferences{}, err
	}
	return prefs, nil
}

func (r *CustomerDynamoRepository) ClaimFeeRefund(ctx context.Context, phone, dropID string, max int) (bool, error) {
	// The conditional grants a first claim on a missing row, which is wrong
	// when the drop covers no fees at all.
	if max <= 0 {
		return false, nil
	}
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.refundsTbl),
		Key: map[string]types.AttributeValue{
			"customer_phone": &types.AttributeValueMemberS{Value: phone},
			"drop_id":        &types.AttributeValueMemberS{Value: dropID},
		},
		UpdateExpression:    aws.String("SET #n = if_not_exists(#n, :zero) + :one"),
		ConditionExpression: aws.String("attribute_not_exists(#n) OR #n < :max"),
		ExpressionAttributeNames: map[string]string{
			"#n": "number_of_times_refunded",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":one":  &types.AttributeValueMemberN{Value: "1"},
			":max":  &types.AttributeValueMemberN{Value: strconv.Itoa(max)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
