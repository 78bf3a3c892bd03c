package repository

import (
	"context"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const defaultMessagesTableName = "messages"

type messageItem struct {
	ID            string `dynamodbav:"id"`
	CustomerPhone string `dynamodbav:"customer_phone"`
	StoreID       string `dynamodbav:"store_id"`
	Text          string `dynamodbav:"text"`
	Direction     int    `dynamodbav:"direction"`
	Date          string `dynamodbav:"date"`
}

// MessageDynamoRepository appends chat log rows to DynamoDB.
//
// Table requirements:
//   - PK: id (string)

type MessageDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IMessageRepository = (*MessageDynamoRepository)(nil)

func NewMessageDynamoRepository(ddb *dynamodb.Client) *MessageDynamoRepository {
	return &MessageDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("MESSAGES_TABLE", defaultMessagesTableName),
	}
}

func (r *MessageDynamoRepository) Log(ctx context.Context, m entities.Message) error {
	av, err := attributevalue.MarshalMap(messageItem{
		ID:            m.ID,
		CustomerPhone: m.CustomerPhone,
		StoreID:       m.StoreID,
		Text:          m.Text,
		Direction:     int(m.Direction),
		Date:          timeToString(m.Date),
	})
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}
