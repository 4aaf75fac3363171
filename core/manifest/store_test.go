package manifest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"spaces-sync/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func setupSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	s := NewStore(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return NewStore(gormDB), mock
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupSQLiteStore(t)

	got, err := s.Lookup(ctx, "site", "a.txt")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Record(ctx, Entry{Bucket: "site", Key: "a.txt", ETag: "e1", SHA256: "h1", Size: 5}))
	got, err = s.Lookup(ctx, "site", "a.txt")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "e1", got.ETag)
	assert.Equal(t, "h1", got.SHA256)
	assert.Equal(t, int64(5), got.Size)
	assert.False(t, got.UpdatedAt.IsZero())

	// Record again replaces in place.
	require.NoError(t, s.Record(ctx, Entry{Bucket: "site", Key: "a.txt", ETag: "e2", SHA256: "h2", Size: 6, UpdatedAt: time.Now()}))
	got, err = s.Lookup(ctx, "site", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "e2", got.ETag)

	n, err := s.Count(ctx, "site")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Forget(ctx, "site", "a.txt"))
	got, err = s.Lookup(ctx, "site", "a.txt")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Forgetting twice is fine.
	assert.NoError(t, s.Forget(ctx, "site", "a.txt"))
}

func TestStore_BucketsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := setupSQLiteStore(t)

	require.NoError(t, s.Record(ctx, Entry{Bucket: "one", Key: "k", ETag: "e1"}))
	require.NoError(t, s.Record(ctx, Entry{Bucket: "two", Key: "k", ETag: "e2"}))

	got, err := s.Lookup(ctx, "two", "k")
	require.NoError(t, err)
	assert.Equal(t, "e2", got.ETag)
}

func TestStore_LongKeys(t *testing.T) {
	ctx := context.Background()
	s := setupSQLiteStore(t)

	long := strings.Repeat("k", 1023) + "a"
	other := strings.Repeat("k", 1023) + "b"
	require.NoError(t, s.Record(ctx, Entry{Bucket: "site", Key: long, ETag: "e1"}))
	require.NoError(t, s.Record(ctx, Entry{Bucket: "site", Key: other, ETag: "e2"}))

	got, err := s.Lookup(ctx, "site", long)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, long, got.Key)
	assert.Equal(t, "e1", got.ETag)
	assert.Len(t, got.KeyHash, 64)

	require.NoError(t, s.Forget(ctx, "site", long))
	got, err = s.Lookup(ctx, "site", other)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "e2", got.ETag)
}

func TestEntry_SchemaFitsInnoDBIndex(t *testing.T) {
	sch, err := schema.Parse(&Entry{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bucket", "key_hash"}, sch.PrimaryFieldDBNames)
	assert.Equal(t, 1024, sch.FieldsByDBName["key"].Size)

	// utf8mb4 stores up to 4 bytes per character; InnoDB caps index keys at 3072 bytes.
	indexBytes := 0
	for _, f := range sch.PrimaryFields {
		indexBytes += 4 * f.Size
	}
	assert.LessOrEqual(t, indexBytes, 3072)
}

func TestStore_LookupMySQL(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		s, mock := setupMockStore(t)
		mock.ExpectQuery("SELECT \\* FROM `sync_manifest` WHERE bucket = \\? AND key_hash = \\?").
			WithArgs("site", keyHash("a.txt"), 1).
			WillReturnRows(sqlmock.NewRows([]string{"bucket", "key_hash", "key", "etag", "sha256", "size", "updated_at"}))

		got, err := s.Lookup(context.Background(), "site", "a.txt")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Found", func(t *testing.T) {
		s, mock := setupMockStore(t)
		mock.ExpectQuery("SELECT \\* FROM `sync_manifest`").
			WillReturnRows(sqlmock.NewRows([]string{"bucket", "key_hash", "key", "etag", "sha256", "size", "updated_at"}).
				AddRow("site", keyHash("a.txt"), "a.txt", "etag", "digest", 5, time.Now()))

		got, err := s.Lookup(context.Background(), "site", "a.txt")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "digest", got.SHA256)
		assert.Equal(t, "a.txt", got.Key)
	})

	t.Run("QueryError", func(t *testing.T) {
		s, mock := setupMockStore(t)
		mock.ExpectQuery("SELECT \\* FROM `sync_manifest`").WillReturnError(errors.New("server gone"))

		_, err := s.Lookup(context.Background(), "site", "a.txt")
		assert.ErrorContains(t, err, "server gone")
	})
}

func TestStore_ForgetMySQLError(t *testing.T) {
	s, mock := setupMockStore(t)
	mock.ExpectExec("DELETE FROM `sync_manifest`").WillReturnError(errors.New("lock wait timeout"))

	err := s.Forget(context.Background(), "site", "a.txt")
	assert.ErrorContains(t, err, "lock wait timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}
