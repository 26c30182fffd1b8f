package dynamo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-match-api/internal/domain"
)

// ProfileRepo provides typed DynamoDB operations for the profiles table.
type ProfileRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewProfileRepo(client *dynamodb.Client, tableName string) *ProfileRepo {
	return &ProfileRepo{client: client, tableName: tableName}
}

func (r *ProfileRepo) Put(ctx context.Context, p *domain.Profile) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ProfileRepo) Get(ctx context.Context, profileID string) (*domain.Profile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("profile_id", profileID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("profile not found: %w", domain.ErrNotFound)
	}
	var p domain.Profile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID resolves a user's own profile via the user_id GSI.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("profile not found: %w", domain.ErrNotFound)
	}
	var p domain.Profile
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) Update(ctx context.Context, profileID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("profile_id", profileID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *ProfileRepo) Delete(ctx context.Context, profileID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("profile_id", profileID),
	})
	return err
}

// ScanPage returns a page of profiles.
// cursor is a base64-encoded profile_id used as ExclusiveStartKey.
func (r *ProfileRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Profile, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		profileID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("profile_id", profileID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var profiles []domain.Profile
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &profiles); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["profile_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return profiles, nextCursor, nil
}

// ScanExcluding returns up to limit profiles whose ids are not in excludedIDs.
// With an empty exclusion set no filter expression is applied at all.
// DynamoDB evaluates Limit before filter expressions, so the scan pages until
// it has collected limit matches or exhausted the table.
func (r *ProfileRepo) ScanExcluding(ctx context.Context, excludedIDs []string, limit int) ([]domain.Profile, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}
	if len(excludedIDs) > 0 {
		placeholders := make([]string, len(excludedIDs))
		values := make(map[string]types.AttributeValue, len(excludedIDs))
		for i, id := range excludedIDs {
			ph := fmt.Sprintf(":x%d", i)
			placeholders[i] = ph
			values[ph] = &types.AttributeValueMemberS{Value: id}
		}
		input.FilterExpression = aws.String(
			fmt.Sprintf("NOT (profile_id IN (%s))", strings.Join(placeholders, ", ")),
		)
		input.ExpressionAttributeValues = values
	}

	collected := make([]domain.Profile, 0, limit)
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Profile
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		for _, p := range page {
			collected = append(collected, p)
			if len(collected) == limit {
				return collected, nil
			}
		}
		if out.LastEvaluatedKey == nil {
			return collected, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
