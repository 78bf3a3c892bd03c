package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"dropbot/internal/domain/entities"
	"dropbot/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultStoresTableName     = "stores"
	defaultDropsTableName      = "drops"
	defaultItemsTableName      = "items"
	defaultSkusTableName       = "skus"
	defaultBonusCoinsTableName = "bonus_coins"
)

type dropItem struct {
	ID                     string `dynamodbav:"id"`
	StoreID                string `dynamodbav:"store_id"`
	DropType               int    `dynamodbav:"drop_type"`
	PreDropDescription     string `dynamodbav:"pre_drop_description,omitempty"`
	AdvertisementStartTime string `dynamodbav:"advertisement_start_time"`
	StartTime              string `dynamodbav:"start_time"`
	EndTime                string `dynamodbav:"end_time"`
	ItemID                 string `dynamodbav:"item_id,omitempty"`
	Timezone               string `dynamodbav:"timezone,omitempty"`

	NumberRestriction           string  `dynamodbav:"number_restriction"`
	CountryCodeRestriction      string  `dynamodbav:"country_code_restriction"`
	CountryLongNameRestriction  string  `dynamodbav:"country_long_name_restriction"`
	ConversionRateMobToCurrency float64 `dynamodbav:"conversion_rate_mob_to_currency"`
	CurrencySymbol              string  `dynamodbav:"currency_symbol"`

	InitialCoinAmountPmob int64 `dynamodbav:"initial_coin_amount_pmob"`
	InitialCoinLimit      int   `dynamodbav:"initial_coin_limit"`
	InitialClaims         int   `dynamodbav:"initial_claims"`

	MaxRefundTransactionFeesCovered int `dynamodbav:"max_refund_transaction_fees_covered"`
}

type storeItem struct {
	ID               string `dynamodbav:"id"`
	Name             string `dynamodbav:"name"`
	PhoneNumber      string `dynamodbav:"phone_number"`
	Description      string `dynamodbav:"description,omitempty"`
	PrivacyPolicyURL string `dynamodbav:"privacy_policy_url,omitempty"`
}

type productItem struct {
	ID               string `dynamodbav:"id"`
	StoreID          string `dynamodbav:"store_id"`
	Name             string `dynamodbav:"name"`
	PriceInPmob      int64  `dynamodbav:"price_in_pmob"`
	Description      string `dynamodbav:"description,omitempty"`
	ShortDescription string `dynamodbav:"short_description,omitempty"`
	ImageLink        string `dynamodbav:"image_link,omitempty"`
}

type skuItem struct {
	ID         string `dynamodbav:"id"`
	ItemID     string `dynamodbav:"item_id"`
	Identifier string `dynamodbav:"identifier"`
	Quantity   int    `dynamodbav:"quantity"`
	SortOrder  int    `dynamodbav:"sort_order"`
}

type bonusCoinItem struct {
	ID              string `dynamodbav:"id"`
	DropID          string `dynamodbav:"drop_id"`
	AmountPmob      int64  `dynamodbav:"amount_pmob"`
	NumberAvailable int    `dynamodbav:"number_available"`
	Claimed         int    `dynamodbav:"claimed"`
}

// CatalogDynamoRepository reads the admin-populated catalog from DynamoDB.
//
// Table requirements:
//   - stores, drops, items, skus, bonus_coins, all PK: id (string)
//
// The drop row carries the initial_claims counter; ClaimInitialCoin consumes
// it with a conditional increment so the quota cannot be oversold. The
// bonus_coins claimed counter is consumed by the session repository inside
// its claim transaction.

type CatalogDynamoRepository struct {
	ddb             *dynamodb.Client
	storesTable     string
	dropsTable      string
	itemsTable      string
	skusTable       string
	bonusCoinsTable string
}

var _ interfaces.ICatalogRepository = (*CatalogDynamoRepository)(nil)

func NewCatalogDynamoRepository(ddb *dynamodb.Client) *CatalogDynamoRepository {
	return &CatalogDynamoRepository{
		ddb:             ddb,
		storesTable:     getenvDefault("STORES_TABLE", defaultStoresTableName),
		dropsTable:      getenvDefault("DROPS_TABLE", defaultDropsTableName),
		itemsTable:      getenvDefault("ITEMS_TABLE", defaultItemsTableName),
		skusTable:       getenvDefault("SKUS_TABLE", defaultSkusTableName),
		bonusCoinsTable: getenvDefault("BONUS_COINS_TABLE", defaultBonusCoinsTableName),
	}
}

func (r *CatalogDynamoRepository) GetStore(ctx context.Context, id string) (entities.Store, error) {
	var it storeItem
	if err := r.getByID(ctx, r.storesTable, id, &it); err != nil {
		return entities.Store{}, err
	}
	return entities.Store{
		ID:               it.ID,
		Name:             it.Name,
		PhoneNumber:      it.PhoneNumber,
		Description:      it.Description,
		PrivacyPolicyURL: it.PrivacyPolicyURL,
	}, nil
}

func (r *CatalogDynamoRepository) GetDrop(ctx context.Context, id string) (entities.Drop, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.dropsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Drop{}, err
	}
	if len(out.Item) == 0 {
		return entities.Drop{}, nil
	}
	var it dropItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Drop{}, err
	}
	return fromDropItem(it), nil
}

func (r *CatalogDynamoRepository) GetActiveDrop(ctx context.Context, now time.Time) (entities.Drop, error) {
	return r.findDrop(ctx, func(d entities.Drop) bool { return d.Active(now) })
}

func (r *CatalogDynamoRepository) GetAdvertisingDrop(ctx context.Context, now time.Time) (entities.Drop, error) {
	return r.findDrop(ctx, func(d entities.Drop) bool { return d.Advertising(now) })
}

// findDrop scans the drops table. The catalog holds a handful of campaigns at
// most, so a scan per inbound event is acceptable.
func (r *CatalogDynamoRepository) findDrop(ctx context.Context, match func(entities.Drop) bool) (entities.Drop, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.dropsTable),
	})
	if err != nil {
		return entities.Drop{}, err
	}
	for _, raw := range out.Items {
		var it dropItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return entities.Drop{}, err
		}
		if d := fromDropItem(it); match(d) {
			return d, nil
		}
	}
	return entities.Drop{}, nil
}

func (r *CatalogDynamoRepository) GetItem(ctx context.Context, id string) (entities.Item, error) {
	var it productItem
	if err := r.getByID(ctx, r.itemsTable, id, &it); err != nil {
		return entities.Item{}, err
	}
	return entities.Item{
		ID:               it.ID,
		StoreID:          it.StoreID,
		Name:             it.Name,
		PriceInPmob:      it.PriceInPmob,
		Description:      it.Description,
		ShortDescription: it.ShortDescription,
		ImageLink:        it.ImageLink,
	}, nil
}

func (r *CatalogDynamoRepository) ListSkus(ctx context.Context, itemID string) ([]entities.Sku, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.skusTable),
		FilterExpression: aws.String("#item_id = :item_id"),
		ExpressionAttributeNames: map[string]string{
			"#item_id": "item_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":item_id": &types.AttributeValueMemberS{Value: itemID},
		},
	})
	if err != nil {
		return nil, err
	}
	var items []skuItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	skus := make([]entities.Sku, 0, len(items))
	for _, it := range items {
		skus = append(skus, entities.Sku{
			ID:         it.ID,
			ItemID:     it.ItemID,
			Identifier: it.Identifier,
			Quantity:   it.Quantity,
			SortOrder:  it.SortOrder,
		})
	}
	sort.Slice(skus, func(i, j int) bool { return skus[i].SortOrder < skus[j].SortOrder })
	return skus, nil
}

func (r *CatalogDynamoRepository) FindSkuByIdentifier(ctx context.Context, itemID, identifier string) (entities.Sku, error) {
	skus, err := r.ListSkus(ctx, itemID)
	if err != nil {
		return entities.Sku{}, err
	}
	for _, sku := range skus {
		if strings.EqualFold(sku.Identifier, strings.TrimSpace(identifier)) {
			return sku, nil
		}
	}
	return entities.Sku{}, nil
}

func (r *CatalogDynamoRepository) ListBonusCoins(ctx context.Context, dropID string) ([]entities.BonusCoin, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.bonusCoinsTable),
		FilterExpression: aws.String("#drop_id = :drop_id"),
		ExpressionAttributeNames: map[string]string{
			"#drop_id": "drop_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":drop_id": &types.AttributeValueMemberS{Value: dropID},
		},
	})
	if err != nil {
		return nil, err
	}
	var coins []entities.BonusCoin
	for _, raw := range out.Items {
		var it bonusCoinItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		coins = append(coins, entities.BonusCoin{
			ID:              it.ID,
			DropID:          it.DropID,
			AmountPmob:      it.AmountPmob,
			NumberAvailable: it.NumberAvailable,
		})
	}
	sort.Slice(coins, func(i, j int) bool { return coins[i].ID < coins[j].ID })
	return coins, nil
}

func (r *CatalogDynamoRepository) ClaimInitialCoin(ctx context.Context, dropID string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.dropsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: dropID},
		},
		UpdateExpression:    aws.String("SET #claims = if_not_exists(#claims, :zero) + :one"),
		ConditionExpression: aws.String("attribute_exists(#id) AND (attribute_not_exists(#claims) OR #claims < #limit)"),
		ExpressionAttributeNames: map[string]string{
			"#id":     "id",
			"#claims": "initial_claims",
			"#limit":  "initial_coin_limit",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":one":  &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return interfaces.ErrOverQuota
		}
		return err
	}
	return nil
}

func (r *CatalogDynamoRepository) CountInitialClaims(ctx context.Context, dropID string) (int, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.dropsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: dropID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, err
	}
	if len(out.Item) == 0 {
		return 0, nil
	}
	var it dropItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return 0, err
	}
	return it.InitialClaims, nil
}

func (r *CatalogDynamoRepository) getByID(ctx context.Context, table, id string, dst interface{}) error {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return err
	}
	if len(out.Item) == 0 {
		return nil
	}
	return attributevalue.UnmarshalMap(out.Item, dst)
}

func fromDropItem(it dropItem) entities.Drop {
	return entities.Drop{
		ID:                     it.ID,
		StoreID:                it.StoreID,
		DropType:               entities.DropType(it.DropType),
		PreDropDescription:     it.PreDropDescription,
		AdvertisementStartTime: parseTime(it.AdvertisementStartTime),
		StartTime:              parseTime(it.StartTime),
		EndTime:                parseTime(it.EndTime),
		ItemID:                 it.ItemID,
		Timezone:               it.Timezone,

		NumberRestriction:           it.NumberRestriction,
		CountryCodeRestriction:      it.CountryCodeRestriction,
		CountryLongNameRestriction:  it.CountryLongNameRestriction,
		ConversionRateMobToCurrency: it.ConversionRateMobToCurrency,
		CurrencySymbol:              it.CurrencySymbol,

		InitialCoinAmountPmob: it.InitialCoinAmountPmob,
		InitialCoinLimit:      it.InitialCoinLimit,

		MaxRefundTransactionFeesCovered: it.MaxRefundTransactionFeesCovered,
	}
}
