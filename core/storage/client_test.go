package storage_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"spaces-sync/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCABundle writes a self-signed CA certificate in PEM form and returns its path.
func writeCABundle(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "spaces-sync test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	return path
}

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("S3Provider", func(t *testing.T) {
		cfg := storage.Config{
			Provider:  storage.ProviderS3,
			Region:    "nyc3",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("S3ProviderWithCABundle", func(t *testing.T) {
		t.Setenv("AWS_CA_BUNDLE", writeCABundle(t))
		cfg := storage.Config{
			Provider:  storage.ProviderS3,
			Endpoint:  "minio.internal:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
		}

		client, err := storage.NewClient(cfg)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		_, err := storage.NewClient(storage.Config{Provider: "gcs", Endpoint: "x"})
		assert.Error(t, err)
	})

	t.Run("NoEndpointNoRegion", func(t *testing.T) {
		_, err := storage.NewClient(storage.Config{})
		assert.Error(t, err)
	})
}

func TestConfig_ResolveEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		want    string
		wantErr bool
	}{
		{"Plain", storage.Config{Endpoint: "localhost:9000"}, "localhost:9000", false},
		{"HTTP", storage.Config{Endpoint: "http://localhost:9000"}, "localhost:9000", false},
		{"HTTPSWithSlash", storage.Config{Endpoint: "https://fra1.digitaloceanspaces.com/"}, "fra1.digitaloceanspaces.com", false},
		{"FromRegion", storage.Config{Region: "nyc3"}, "nyc3.digitaloceanspaces.com", false},
		{"Missing", storage.Config{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ResolveEndpoint()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := storage.Config{Provider: storage.ProviderMinio, Bucket: "site", Region: "nyc3"}
	assert.NoError(t, valid.Validate())

	noBucket := valid
	noBucket.Bucket = ""
	assert.ErrorContains(t, noBucket.Validate(), "bucket")

	badProvider := valid
	badProvider.Provider = "ftp"
	assert.ErrorContains(t, badProvider.Validate(), "provider")
}

func TestIsDirMarker(t *testing.T) {
	assert.True(t, storage.IsDirMarker("images/"))
	assert.True(t, storage.IsDirMarker("/"))
	assert.False(t, storage.IsDirMarker("images/logo.png"))
	assert.False(t, storage.IsDirMarker(""))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, storage.IsNotFound(storage.ErrNotFound))
	assert.True(t, storage.IsNotFound(fmt.Errorf("%w: a.txt", storage.ErrNotFound)))
	assert.False(t, storage.IsNotFound(errors.New("access denied")))
	assert.False(t, storage.IsNotFound(nil))
}
