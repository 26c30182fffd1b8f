package dynamo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-match-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo serves canned DynamoDB JSON responses in order and records the
// request bodies it received.
func fakeDynamo(t *testing.T, responses []string) (*dynamodb.Client, *[]string) {
	t.Helper()
	var bodies []string
	call := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		bodies = append(bodies, string(body))
		require.Less(t, call, len(responses), "unexpected extra request")
		w.Header().Set("Content-Type", "application/x-amz-json-1.0")
		_, _ = w.Write([]byte(responses[call]))
		call++
	}))
	t.Cleanup(srv.Close)

	client := dynamodb.New(dynamodb.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		Credentials:  credentials.NewStaticCredentialsProvider("test", "test", ""),
	})
	return client, &bodies
}

func TestGetActiveByUser_FollowsPagination(t *testing.T) {
	// First page holds only non-active rows (filtered out server-side), so the
	// active subscription is only reachable through LastEvaluatedKey.
	client, bodies := fakeDynamo(t, []string{
		`{"Count":0,"ScannedCount":3,"Items":[],"LastEvaluatedKey":{"subscription_id":{"S":"s-old"}}}`,
		`{"Count":1,"ScannedCount":1,"Items":[{"subscription_id":{"S":"s-active"},"user_id":{"S":"u1"},"plan_id":{"S":"p1"},"status":{"S":"active"}}]}`,
	})
	repo := NewSubscriptionRepo(client, "subscriptions")

	sub, err := repo.GetActiveByUser(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "s-active", sub.SubscriptionID)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
	require.Len(t, *bodies, 2)
	assert.True(t, strings.Contains((*bodies)[1], "ExclusiveStartKey"))
	assert.True(t, strings.Contains((*bodies)[1], "s-old"))
}

func TestGetActiveByUser_NoActiveRow_ReturnsNotFound(t *testing.T) {
	client, _ := fakeDynamo(t, []string{
		`{"Count":0,"ScannedCount":2,"Items":[]}`,
	})
	repo := NewSubscriptionRepo(client, "subscriptions")

	sub, err := repo.GetActiveByUser(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Nil(t, sub)
}
