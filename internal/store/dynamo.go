package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"ddns53/internal/model"
)

// dynamoAPI is the slice of the DynamoDB client used here, narrowed so tests
// can substitute a fake.
type dynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore keeps user records in a single DynamoDB table keyed by
// username, with password_hash as a string and domains as a string set.
type DynamoStore struct {
	client dynamoAPI
	table  string
}

func NewDynamoStore(awsCfg aws.Config, table string) *DynamoStore {
	return &DynamoStore{
		client: dynamodb.NewFromConfig(awsCfg),
		table:  table,
	}
}

func (s *DynamoStore) GetUser(ctx context.Context, username string) (model.User, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: username},
		},
	})
	if err != nil {
		return model.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	if out.Item == nil {
		return model.User{}, ErrNotFound
	}
	var user model.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return model.User{}, fmt.Errorf("decode user %q: %w", username, err)
	}
	return user, nil
}

func (s *DynamoStore) PutUser(ctx context.Context, user model.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("encode user %q: %w", user.Username, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(username)"),
	})
	var conditional *types.ConditionalCheckFailedException
	if errors.As(err, &conditional) {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("put user %q: %w", user.Username, err)
	}
	return nil
}
