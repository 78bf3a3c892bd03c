package repository

import (
	"context"
	"errors"
	"time"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultSessionsTableName = "drop_sessions"

type sessionItem struct {
	ID               string `dynamodbav:"id"`
	CustomerPhone    string `dynamodbav:"customer_phone"`
	DropID           string `dynamodbav:"drop_id"`
	DropType         int    `dynamodbav:"drop_type"`
	State            int    `dynamodbav:"state"`
	ManualOverride   bool   `dynamodbav:"manual_override"`
	BonusCoinClaimed string `dynamodbav:"bonus_coin_claimed,omitempty"`
	CreatedAt        string `dynamodbav:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at"`
}

// SessionDynamoRepository persists DropSession entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// The session ID is the "<customer_phone>|<drop_id>" pair, so a conditional
// put on the PK guarantees at most one session per pair and keeps GetOrCreate
// a single conditional write.
//
// ClaimBonusCoin runs as a two-item transaction: the session row takes the
// coin ID only while it has none, and the coin row's claimed counter is
// incremented only while below number_available. Either condition failing
// cancels both writes.

type SessionDynamoRepository struct {
	ddb             *dynamodb.Client
	tableName       string
	bonusCoinsTable string
}

var _ interfaces.ISessionRepository = (*SessionDynamoRepository)(nil)

func NewSessionDynamoRepository(ddb *dynamodb.Client) *SessionDynamoRepository {
	return &SessionDynamoRepository{
		ddb:             ddb,
		tableName:       getenvDefault("SESSIONS_TABLE", defaultSessionsTableName),
		bonusCoinsTable: getenvDefault("BONUS_COINS_TABLE", defaultBonusCoinsTableName),
	}
}

func sessionID(phone, dropID string) string { return phone + "|" + dropID }

func (r *SessionDynamoRepository) GetOrCreate(ctx context.Context, s entities.DropSession) (entities.DropSession, bool, error) {
	s.ID = sessionID(s.CustomerPhone, s.DropID)
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	av, err := attributevalue.MarshalMap(toSessionItem(s))
	if err != nil {
		return entities.DropSession{}, false, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if !errors.As(err, &cfe) {
			return entities.DropSession{}, false, err
		}
		existing, err := r.GetByID(ctx, s.ID)
		return existing, false, err
	}
	return s, true, nil
}

func (r *SessionDynamoRepository) GetByID(ctx context.Context, id string) (entities.DropSession, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.DropSession{}, err
	}
	if len(out.Item) == 0 {
		return entities.DropSession{}, nil
	}
	var it sessionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.DropSession{}, err
	}
	return fromSessionItem(it), nil
}

func (r *SessionDynamoRepository) Update(ctx context.Context, s entities.DropSession) (entities.DropSession, error) {
	s.UpdatedAt = time.Now().UTC()
	av, err := attributevalue.MarshalMap(toSessionItem(s))
	if err != nil {
		return entities.DropSession{}, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.DropSession{}, err
	}
	return s, nil
}

func (r *SessionDynamoRepository) FindActiveByCustomer(ctx context.Context, phone string, dropType entities.DropType) (entities.DropSession, error) {
	sessions, err := r.scanByCustomer(ctx, phone)
	if err != nil {
		return entities.DropSession{}, err
	}
	for _, s := range sessions {
		if s.DropType == dropType && s.Active() {
			return s, nil
		}
	}
	return entities.DropSession{}, nil
}

func (r *SessionDynamoRepository) CountByCustomerDropAndState(ctx context.Context, phone, dropID string, state int) (int, error) {
	sessions, err := r.scanByCustomer(ctx, phone)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range sessions {
		if s.DropID == dropID && s.State == state {
			n++
		}
	}
	return n, nil
}

func (r *SessionDynamoRepository) scanByCustomer(ctx context.Context, phone string) ([]entities.DropSession, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#phone = :phone"),
		ExpressionAttributeNames: map[string]string{
			"#phone": "customer_phone",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":phone": &types.AttributeValueMemberS{Value: phone},
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalSessions(out.Items)
}

func (r *SessionDynamoRepository) ClaimBonusCoin(ctx context.Context, sessID string, coin entities.BonusCoin) error {
	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(r.tableName),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: sessID},
					},
					UpdateExpression:    aws.String("SET #coin = :coin"),
					ConditionExpression: aws.String("attribute_exists(#id) AND attribute_not_exists(#coin)"),
					ExpressionAttributeNames: map[string]string{
						"#id":   "id",
						"#coin": "bonus_coin_claimed",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":coin": &types.AttributeValueMemberS{Value: coin.ID},
					},
				},
			},
			{
				Update: &types.Update{
					TableName: aws.String(r.bonusCoinsTable),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: coin.ID},
					},
					UpdateExpression:    aws.String("SET #claimed = if_not_exists(#claimed, :zero) + :one"),
					ConditionExpression: aws.String("attribute_exists(#id) AND (attribute_not_exists(#claimed) OR #claimed < #available)"),
					ExpressionAttributeNames: map[string]string{
						"#id":        "id",
						"#claimed":   "claimed",
						"#available": "number_available",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":zero": &types.AttributeValueMemberN{Value: "0"},
						":one":  &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) == 2 {
			if reasonIsConditionalCheckFailed(tce.CancellationReasons[0]) {
				return interfaces.ErrBonusAlreadyClaimed
			}
			if reasonIsConditionalCheckFailed(tce.CancellationReasons[1]) {
				return interfaces.ErrBonusCoinExhausted
			}
		}
		return err
	}
	return nil
}

func (r *SessionDynamoRepository) CountBonusCoinClaims(ctx context.Context, coinID string) (int, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.bonusCoinsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: coinID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, err
	}
	if len(out.Item) == 0 {
		return 0, nil
	}
	var it bonusCoinItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return 0, err
	}
	return it.Claimed, nil
}

func (r *SessionDynamoRepository) ListActiveIdleSince(ctx context.Context, cutoff time.Time) ([]entities.DropSession, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#updated_at <= :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cutoff": &types.AttributeValueMemberS{Value: timeToString(cutoff)},
		},
	})
	if err != nil {
		return nil, err
	}
	sessions, err := unmarshalSessions(out.Items)
	if err != nil {
		return nil, err
	}
	idle := sessions[:0]
	for _, s := range sessions {
		if s.Active() {
			idle = append(idle, s)
		}
	}
	return idle, nil
}

func reasonIsConditionalCheckFailed(reason types.CancellationReason) bool {
	return reason.Code != nil && *reason.Code == "ConditionalCheckFailed"
}

func unmarshalSessions(raw []map[string]types.AttributeValue) ([]entities.DropSession, error) {
	sessions := make([]entities.DropSession, 0, len(raw))
	for _, m := range raw {
		var it sessionItem
		if err := attributevalue.UnmarshalMap(m, &it); err != nil {
			return nil, err
		}
		sessions = append(sessions, fromSessionItem(it))
	}
	return sessions, nil
}

func toSessionItem(s entities.DropSession) sessionItem {
	return sessionItem{
		ID:               s.ID,
		CustomerPhone:    s.CustomerPhone,
		DropID:           s.DropID,
		DropType:         int(s.DropType),
		State:            s.State,
		ManualOverride:   s.ManualOverride,
		BonusCoinClaimed: s.BonusCoinClaimed,
		CreatedAt:        timeToString(s.CreatedAt),
		UpdatedAt:        timeToString(s.UpdatedAt),
	}
}

func fromSessionItem(it sessionItem) entities.DropSession {
	return entities.DropSession{
		ID:               it.ID,
		CustomerPhone:    it.CustomerPhone,
		DropID:           it.DropID,
		DropType:         entities.DropType(it.DropType),
		State:            it.State,
		ManualOverride:   it.ManualOverride,
		BonusCoinClaimed: it.BonusCoinClaimed,
		CreatedAt:        parseTime(it.CreatedAt),
		UpdatedAt:        parseTime(it.UpdatedAt),
	}
}
