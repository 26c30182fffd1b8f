package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-match-api/internal/domain"
)

// SubscriptionRepo provides typed DynamoDB operations for the subscriptions table.
type SubscriptionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubscriptionRepo(client *dynamodb.Client, tableName string) *SubscriptionRepo {
	return &SubscriptionRepo{client: client, tableName: tableName}
}

func (r *SubscriptionRepo) Put(ctx context.Context, s *domain.Subscription) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SubscriptionRepo) Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("subscription_id", subscriptionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("subscription not found: %w", domain.ErrNotFound)
	}
	var s domain.Subscription
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetActiveByUser returns the user's active subscription, if any.
// The status filter runs after the key condition, so pages with no active row
// come back empty and the query keeps following LastEvaluatedKey.
func (r *SubscriptionRepo) GetActiveByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		FilterExpression:       aws.String("#s = :active"),
		ExpressionAttributeNames: map[string]string{
			"#s": fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid":    &types.AttributeValueMemberS{Value: userID},
			":active": &types.AttributeValueMemberS{Value: domain.SubscriptionActive},
		},
	}
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		if len(out.Items) > 0 {
			var s domain.Subscription
			if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
				return nil, err
			}
			return &s, nil
		}
		if out.LastEvaluatedKey == nil {
			return nil, fmt.Errorf("no active subscription: %w", domain.ErrNotFound)
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// ListByUser returns all subscriptions ever held by the user.
func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	}
	var subs []domain.Subscription
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Subscription
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		subs = append(subs, page...)
		if out.LastEvaluatedKey == nil {
			return subs, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *SubscriptionRepo) Update(ctx context.Context, subscriptionID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("subscription_id", subscriptionID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
