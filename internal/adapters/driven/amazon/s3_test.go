package amazon

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

func TestObjectStore_PutGet(t *testing.T) {
	client := newMockS3()
	store := NewObjectStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "certs-bucket", "app/cert.crt", []byte("PEM"), "application/x-pem-file"))

	require.Len(t, client.puts, 1)
	assert.Equal(t, types.ServerSideEncryptionAes256, client.puts[0].ServerSideEncryption)
	assert.Equal(t, "application/x-pem-file", aws.ToString(client.puts[0].ContentType))

	got, err := store.Get(ctx, "certs-bucket", "app/cert.crt")
	require.NoError(t, err)
	assert.Equal(t, []byte("PEM"), got)
}

func TestObjectStore_GetMissing(t *testing.T) {
	store := NewObjectStore(newMockS3())

	_, err := store.Get(context.Background(), "certs-bucket", "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
