package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"recruit-workers/internal/common/database"
	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
)

var profileCols = []string{"id", "email", "first_name", "last_name", "role", "company_id", "location"}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func newMockDB(t *testing.T) (sqlmock.Sqlmock, *Resolver, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	return mock, NewResolver(db, cache, time.Minute, createTestLogger(t)), mr
}

func TestResolve_EmptyUserIsNotLoaded(t *testing.T) {
	_, resolver, _ := newMockDB(t)

	id, err := resolver.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, NotLoaded, id.State)
	assert.False(t, id.IsRecruiter())
}

func TestResolve_LoadsAndCachesProfile(t *testing.T) {
	mock, resolver, mr := newMockDB(t)

	mock.ExpectQuery(`FROM profiles\s+WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow("user-1", "r@acme.io", "Rita", "Ng", "recruiter", "company-1", nil))

	id, err := resolver.Resolve(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, id.IsLoaded())
	assert.True(t, id.IsRecruiter())
	assert.Equal(t, "company-1", id.Profile.CompanyIDOrEmpty())
	assert.True(t, mr.Exists("profile:user-1"))

	// second call is served from cache; no further query expected
	again, err := resolver.Resolve(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Rita", again.Profile.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_MissingProfileIsNotLoaded(t *testing.T) {
	mock, resolver, mr := newMockDB(t)

	mock.ExpectQuery(`FROM profiles`).
		WithArgs("new-user").
		WillReturnRows(sqlmock.NewRows(profileCols))

	id, err := resolver.Resolve(context.Background(), "new-user")
	require.NoError(t, err)
	assert.Equal(t, NotLoaded, id.State)
	assert.False(t, mr.Exists("profile:new-user"))
}

func TestResolve_StoreFailure(t *testing.T) {
	mock, resolver, _ := newMockDB(t)

	mock.ExpectQuery(`FROM profiles`).WillReturnError(errors.New("connection refused"))

	_, err := resolver.Resolve(context.Background(), "user-1")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProfileLookupFailed))
}

func TestResolve_CacheErrorFallsBackToStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	client, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("profile:user-2").SetErr(errors.New("READONLY"))

	resolver := NewResolver(db, &database.RedisClient{Client: client}, time.Minute, createTestLogger(t))

	mock.ExpectQuery(`FROM profiles`).
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow("user-2", "c@mail.io", "Cam", "Lee", "candidate", nil, "Porto"))

	// the write-back has no expectation; its failure is only logged
	id, err := resolver.Resolve(context.Background(), "user-2")
	require.NoError(t, err)
	assert.True(t, id.IsLoaded())
	assert.False(t, id.IsRecruiter())
	assert.Equal(t, "Porto", *id.Profile.Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequire(t *testing.T) {
	_, resolver, _ := newMockDB(t)

	_, err := resolver.Require(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeIdentityNotLoaded))
}

func TestInvalidate(t *testing.T) {
	_, resolver, mr := newMockDB(t)
	require.NoError(t, mr.Set("profile:user-1", `{"id":"user-1"}`))

	require.NoError(t, resolver.Invalidate(context.Background(), "user-1"))
	assert.False(t, mr.Exists("profile:user-1"))
}

func TestResolver_WithoutCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	resolver := NewResolver(db, nil, 0, createTestLogger(t))
	mock.ExpectQuery(`FROM profiles`).
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow("u", "u@x.io", "U", "X", "enterprise_admin", "c", nil))

	id, err := resolver.Resolve(context.Background(), "u")
	require.NoError(t, err)
	assert.True(t, id.IsRecruiter())
	assert.NoError(t, resolver.Invalidate(context.Background(), "u"))
}
