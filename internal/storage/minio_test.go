package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

func TestMinIOConfigValidate(t *testing.T) {
	var nilCfg *MinIOConfig
	require.Error(t, nilCfg.Validate())
	require.Error(t, (&MinIOConfig{Bucket: "content"}).Validate())
	require.Error(t, (&MinIOConfig{Endpoint: "localhost:9000"}).Validate())
	require.NoError(t, (&MinIOConfig{Endpoint: "localhost:9000", Bucket: "content"}).Validate())
}

func TestNewMinIOStorageRejectsMissingConfig(t *testing.T) {
	_, err := NewMinIOStorage(context.Background(), &MinIOConfig{})
	require.Error(t, err)
}

func TestTranslateNotFound(t *testing.T) {
	err := translate("articles/x.md", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})
	require.True(t, errors.Is(err, ErrObjectNotFound))

	err = translate("articles/x.md", errors.New("connection reset"))
	require.False(t, errors.Is(err, ErrObjectNotFound))
	require.Contains(t, err.Error(), "connection reset")
}
