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

// SwipeRepo provides typed DynamoDB operations for the swipes table.
// All time-window queries run against the user_id-created_at GSI. Swipe
// timestamps are written at second precision in UTC, so the RFC3339 strings
// order lexicographically and BETWEEN conditions behave as time ranges.
type SwipeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSwipeRepo(client *dynamodb.Client, tableName string) *SwipeRepo {
	return &SwipeRepo{client: client, tableName: tableName}
}

func (r *SwipeRepo) Put(ctx context.Context, s *domain.Swipe) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal swipe: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// CountByUserBetween counts a user's swipes with created_at in [start, end].
func (r *SwipeRepo) CountByUserBetween(ctx context.Context, userID string, start, end time.Time) (int, error) {
	input := r.windowQuery(userID, start, end)
	input.Select = types.SelectCount

	total := 0
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return 0, err
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// ProfileIDsByUserBetween returns the ids of profiles the user swiped within
// [start, end]. Only the profile_id attribute is fetched.
func (r *SwipeRepo) ProfileIDsByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]string, error) {
	input := r.windowQuery(userID, start, end)
	input.ProjectionExpression = aws.String("profile_id")

	var ids []string
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			if v, ok := item["profile_id"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, v.Value)
			}
		}
		if out.LastEvaluatedKey == nil {
			return ids, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// ListByUserBetween returns a user's full swipe records within [start, end].
func (r *SwipeRepo) ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.Swipe, error) {
	input := r.windowQuery(userID, start, end)

	var swipes []domain.Swipe
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Swipe
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		swipes = append(swipes, page...)
		if out.LastEvaluatedKey == nil {
			return swipes, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// HasLike reports whether userID has ever recorded a like on profileID.
func (r *SwipeRepo) HasLike(ctx context.Context, userID, profileID string) (bool, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-created_at-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		FilterExpression:       aws.String("profile_id = :pid AND #t = :like"),
		ExpressionAttributeNames: map[string]string{
			"#t": "type",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid":  &types.AttributeValueMemberS{Value: userID},
			":pid":  &types.AttributeValueMemberS{Value: profileID},
			":like": &types.AttributeValueMemberS{Value: domain.SwipeLike},
		},
	}
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return false, err
		}
		if out.Count > 0 {
			return true, nil
		}
		if out.LastEvaluatedKey == nil {
			return false, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *SwipeRepo) windowQuery(userID string, start, end time.Time) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-created_at-index"),
		KeyConditionExpression: aws.String("user_id = :uid AND created_at BETWEEN :start AND :end"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid":   &types.AttributeValueMemberS{Value: userID},
			":start": &types.AttributeValueMemberS{Value: start.UTC().Truncate(time.Second).Format(time.RFC3339)},
			":end":   &types.AttributeValueMemberS{Value: end.UTC().Truncate(time.Second).Format(time.RFC3339)},
		},
	}
}
