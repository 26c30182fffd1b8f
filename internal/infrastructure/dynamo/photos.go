package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-match-api/internal/domain"
)

// PhotoRepo provides typed DynamoDB operations for the photos table.
type PhotoRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPhotoRepo(client *dynamodb.Client, tableName string) *PhotoRepo {
	return &PhotoRepo{client: client, tableName: tableName}
}

func (r *PhotoRepo) Put(ctx context.Context, p *domain.Photo) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal photo: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PhotoRepo) Get(ctx context.Context, photoID string) (*domain.Photo, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("photo_id", photoID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("photo not found: %w", domain.ErrNotFound)
	}
	var p domain.Photo
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByProfile returns all photo records attached to a profile.
func (r *PhotoRepo) ListByProfile(ctx context.Context, profileID string) ([]domain.Photo, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("profile_id-index"),
		KeyConditionExpression: aws.String("profile_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: profileID},
		},
	})
	if err != nil {
		return nil, err
	}
	var photos []domain.Photo
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PhotoRepo) Delete(ctx context.Context, photoID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("photo_id", photoID),
	})
	return err
}
