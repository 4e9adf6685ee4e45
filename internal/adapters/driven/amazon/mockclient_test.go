package amazon

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

func apiErr(operation, code, message string) error {
	return &smithy.OperationError{
		ServiceID:     "test",
		OperationName: operation,
		Err:           &smithy.GenericAPIError{Code: code, Message: message},
	}
}

// mockSecretsManager keeps secrets in memory and pages ListSecrets one entry
// at a time.
type mockSecretsManager struct {
	SecretsManagerAPI
	secrets map[string]string
	updates int
}

func newMockSecretsManager() *mockSecretsManager {
	return &mockSecretsManager{secrets: make(map[string]string)}
}

func secretARN(name string) *string {
	return aws.String("arn:aws:secretsmanager:us-east-1:123456789012:secret:" + name)
}

func (m *mockSecretsManager) CreateSecret(_ context.Context, in *secretsmanager.CreateSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	name := aws.ToString(in.Name)
	if _, ok := m.secrets[name]; ok {
		return nil, &smithy.OperationError{
			ServiceID:     "Secrets Manager",
			OperationName: "CreateSecret",
			Err:           &smtypes.ResourceExistsException{Message: aws.String("secret exists")},
		}
	}
	m.secrets[name] = aws.ToString(in.SecretString)
	return &secretsmanager.CreateSecretOutput{Name: in.Name, ARN: secretARN(name)}, nil
}

func (m *mockSecretsManager) UpdateSecret(_ context.Context, in *secretsmanager.UpdateSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretOutput, error) {
	name := aws.ToString(in.SecretId)
	if _, ok := m.secrets[name]; !ok {
		return nil, apiErr("UpdateSecret", "ResourceNotFoundException", "Secrets Manager can't find the specified secret.")
	}
	m.secrets[name] = aws.ToString(in.SecretString)
	m.updates++
	return &secretsmanager.UpdateSecretOutput{Name: in.SecretId, ARN: secretARN(name)}, nil
}

func (m *mockSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	name := aws.ToString(in.SecretId)
	v, ok := m.secrets[name]
	if !ok {
		return nil, apiErr("GetSecretValue", "ResourceNotFoundException", "Secrets Manager can't find the specified secret.")
	}
	return &secretsmanager.GetSecretValueOutput{Name: in.SecretId, ARN: secretARN(name), SecretString: aws.String(v)}, nil
}

func (m *mockSecretsManager) DescribeSecret(_ context.Context, in *secretsmanager.DescribeSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error) {
	name := aws.ToString(in.SecretId)
	if _, ok := m.secrets[name]; !ok {
		return nil, apiErr("DescribeSecret", "ResourceNotFoundException", "Secrets Manager can't find the specified secret.")
	}
	return &secretsmanager.DescribeSecretOutput{Name: in.SecretId, ARN: secretARN(name)}, nil
}

func (m *mockSecretsManager) ListSecrets(_ context.Context, in *secretsmanager.ListSecretsInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	var names []string
	for _, name := range sortedKeys(m.secrets) {
		if len(in.Filters) == 0 || strings.Contains(name, in.Filters[0].Values[0]) {
			names = append(names, name)
		}
	}

	start := 0
	for i, name := range names {
		if in.NextToken != nil && name == *in.NextToken {
			start = i
		}
	}
	if start >= len(names) {
		return &secretsmanager.ListSecretsOutput{}, nil
	}

	out := &secretsmanager.ListSecretsOutput{
		SecretList: []smtypes.SecretListEntry{{Name: aws.String(names[start]), ARN: secretARN(names[start])}},
	}
	if start+1 < len(names) {
		out.NextToken = aws.String(names[start+1])
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mockS3 keeps objects in memory.
type mockS3 struct {
	S3API
	objects map[string][]byte
	puts    []*s3.PutObjectInput
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte)}
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	m.puts = append(m.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, apiErr("GetObject", "NoSuchKey", "The specified key does not exist.")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

// mockSTS counts identity calls.
type mockSTS struct {
	STSAPI
	calls int
}

func (m *mockSTS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	m.calls++
	return &sts.GetCallerIdentityOutput{Account: aws.String("123456789012")}, nil
}

// mockDynamoDB is a single table keyed on "id".
type mockDynamoDB struct {
	DynamoDBAPI
	mu    sync.Mutex
	items map[string]map[string]ddbtypes.AttributeValue
	puts  []*dynamodb.PutItemInput
}

func newMockDynamoDB() *mockDynamoDB {
	return &mockDynamoDB{items: make(map[string]map[string]ddbtypes.AttributeValue)}
}

func keyOf(key map[string]ddbtypes.AttributeValue) string {
	var k string
	_ = attributevalue.Unmarshal(key["id"], &k)
	return k
}

func (m *mockDynamoDB) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts = append(m.puts, in)
	k := keyOf(in.Item)
	if _, ok := m.items[k]; ok && in.ConditionExpression != nil {
		return nil, &smithy.OperationError{
			ServiceID:     "DynamoDB",
			OperationName: "PutItem",
			Err:           &ddbtypes.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")},
		}
	}
	m.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoDB) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: m.items[keyOf(in.Key)]}, nil
}

func (m *mockDynamoDB) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := keyOf(in.Key)
	old := m.items[k]
	delete(m.items, k)
	out := &dynamodb.DeleteItemOutput{}
	if in.ReturnValues == ddbtypes.ReturnValueAllOld {
		out.Attributes = old
	}
	return out, nil
}
