package storage

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestTranslateMinioError(t *testing.T) {
	t.Run("NoSuchKey", func(t *testing.T) {
		err := translateMinioError("a.txt", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})
		assert.True(t, IsNotFound(err))
	})

	t.Run("AccessDenied", func(t *testing.T) {
		src := minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
		err := translateMinioError("a.txt", src)
		assert.False(t, IsNotFound(err))
	})

	t.Run("NetworkError", func(t *testing.T) {
		err := translateMinioError("a.txt", errors.New("connection reset"))
		assert.False(t, IsNotFound(err))
	})
}

func TestIsS3NotFound(t *testing.T) {
	assert.True(t, isS3NotFound(&types.NoSuchKey{}))
	assert.True(t, isS3NotFound(&types.NotFound{}))
	assert.True(t, isS3NotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.False(t, isS3NotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isS3NotFound(errors.New("timeout")))
}
