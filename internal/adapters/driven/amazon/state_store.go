package amazon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure StateStore implements driven.OAuthStateStore
var _ driven.OAuthStateStore = (*StateStore)(nil)

// DynamoDBAPI is the subset of the DynamoDB client used here.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// stateItem is a state row. The table is keyed on "id" and "expires" holds
// epoch seconds; it doubles as the table's TTL attribute.
type stateItem struct {
	ID      string `dynamodbav:"id"`
	Data    string `dynamodbav:"data"`
	Expires int64  `dynamodbav:"expires"`
}

// StateStore implements driven.OAuthStateStore with a DynamoDB table.
type StateStore struct {
	client DynamoDBAPI
	table  string
	now    func() time.Time
}

// NewStateStore creates a StateStore over table.
func NewStateStore(client DynamoDBAPI, table string) *StateStore {
	return &StateStore{client: client, table: table, now: time.Now}
}

// NewStateStoreFromConfig creates a StateStore from an AWS config.
func NewStateStoreFromConfig(cfg aws.Config, table string) *StateStore {
	return NewStateStore(dynamodb.NewFromConfig(cfg), table)
}

// Save writes a new state. Reusing a live token fails.
func (s *StateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	item, err := attributevalue.MarshalMap(stateItem{
		ID:      state.State,
		Data:    state.Data,
		Expires: state.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal oauth state: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#s)"),
		ExpressionAttributeNames: map[string]string{"#s": "id"},
	})
	if err != nil {
		return classify("PutItem", err)
	}
	return nil
}

// Get returns the state without consuming it.
func (s *StateStore) Get(ctx context.Context, state string) (*driven.OAuthState, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            stateKey(state),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, classify("GetItem", err)
	}
	return s.decode(out.Item)
}

// GetAndDelete deletes the state and returns the deleted row, so two
// concurrent consumers never both receive it.
func (s *StateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          stateKey(state),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, classify("DeleteItem", err)
	}
	return s.decode(out.Attributes)
}

// Cleanup is a no-op; the table TTL removes expired rows.
func (s *StateStore) Cleanup(ctx context.Context) error {
	return nil
}

func (s *StateStore) decode(item map[string]types.AttributeValue) (*driven.OAuthState, error) {
	if len(item) == 0 {
		return nil, nil
	}
	var row stateItem
	if err := attributevalue.UnmarshalMap(item, &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oauth state: %w", err)
	}
	if row.ID == "" {
		return nil, errors.New("oauth state row has no key")
	}

	// creation time is not stored
	st := &driven.OAuthState{
		State:     row.ID,
		Data:      row.Data,
		ExpiresAt: time.Unix(row.Expires, 0).UTC(),
	}
	// TTL deletion lags, so expiry is checked on read
	if st.Expired(s.now()) {
		return nil, nil
	}
	return st, nil
}

func stateKey(state string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: state},
	}
}
