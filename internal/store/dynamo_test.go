package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddns53/internal/model"
)

type fakeDynamo struct {
	items   map[string]map[string]types.AttributeValue
	getErr  error
	putErr  error
	lastPut *dynamodb.PutItemInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	key := in.Key["username"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoPutThenGet(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
	s := &DynamoStore{client: fake, table: "ddns_users"}

	user := model.User{
		Username:     "alice1234",
		PasswordHash: "$argon2id$v=19$m=4096,t=3,p=1$c2FsdA$aGFzaA",
		Domains:      []string{"alice.example.com"},
	}
	require.NoError(t, s.PutUser(context.Background(), user))

	require.NotNil(t, fake.lastPut)
	assert.Equal(t, "ddns_users", aws.ToString(fake.lastPut.TableName))
	assert.Equal(t, "attribute_not_exists(username)", aws.ToString(fake.lastPut.ConditionExpression))

	// The item round-trips through the attributevalue marshaller with
	// domains as a string set.
	ss, ok := fake.lastPut.Item["domains"].(*types.AttributeValueMemberSS)
	require.True(t, ok, "domains must marshal as a string set")
	assert.Equal(t, []string{"alice.example.com"}, ss.Value)

	fake.items["alice1234"] = fake.lastPut.Item
	got, err := s.GetUser(context.Background(), "alice1234")
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestDynamoGetUserNotFound(t *testing.T) {
	s := &DynamoStore{client: &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}, table: "ddns_users"}

	_, err := s.GetUser(context.Background(), "nobody99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoGetUserBackendError(t *testing.T) {
	s := &DynamoStore{client: &fakeDynamo{getErr: errors.New("throttled")}, table: "ddns_users"}

	_, err := s.GetUser(context.Background(), "alice1234")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDynamoPutUserConditionalFailure(t *testing.T) {
	fake := &fakeDynamo{putErr: &types.ConditionalCheckFailedException{Message: aws.String("exists")}}
	s := &DynamoStore{client: fake, table: "ddns_users"}

	err := s.PutUser(context.Background(), model.User{Username: "alice1234", Domains: []string{"a.example.com"}})
	assert.ErrorIs(t, err, ErrExists)
}
