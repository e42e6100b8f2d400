// internal/identity/identity.go
package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"recruit-workers/internal/common/database"
	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/models"
	"recruit-workers/internal/workers/data-access/query-postgresql/queries"
)

// State tags whether a profile is available for the current user.
type State int

const (
	NotLoaded State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "loading"
}

// Identity is either NotLoaded or Loaded with a non-nil Profile.
type Identity struct {
	State   State
	Profile *models.Profile
}

func (i Identity) IsLoaded() bool {
	return i.State == Loaded && i.Profile != nil
}

// IsRecruiter is false for a NotLoaded identity.
func (i Identity) IsRecruiter() bool {
	return i.IsLoaded() && models.IsRecruiter(i.Profile.Role)
}

func loaded(p *models.Profile) Identity {
	return Identity{State: Loaded, Profile: p}
}

const DefaultProfileTTL = 5 * time.Minute

// Resolver turns a user id into an Identity, reading profiles through a
// Redis cache-aside in front of Postgres. The cache is optional.
type Resolver struct {
	db     *sql.DB
	cache  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewResolver(db *sql.DB, cache *database.RedisClient, ttl time.Duration, log logger.Logger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &Resolver{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "identity"}),
	}
}

func cacheKey(userID string) string {
	return "profile:" + userID
}

// Resolve returns NotLoaded for an empty user id or a missing profile.
// Only a failing store read is an error.
func (r *Resolver) Resolve(ctx context.Context, userID string) (Identity, error) {
	if userID == "" {
		return Identity{}, nil
	}

	if p, ok := r.cached(ctx, userID); ok {
		return loaded(p), nil
	}

	data, _, _, err := queries.Profile(ctx, r.db, map[string]interface{}{"userId": userID})
	if err != nil {
		return Identity{}, apperrors.NewProfileLookupFailedError(err)
	}
	p, ok := data.(*models.Profile)
	if !ok || p == nil {
		return Identity{}, nil
	}

	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, cacheKey(userID), p, r.ttl); err != nil {
			r.logger.Warn("failed to cache profile", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
	}
	return loaded(p), nil
}

func (r *Resolver) cached(ctx context.Context, userID string) (*models.Profile, bool) {
	if r.cache == nil {
		return nil, false
	}

	var p models.Profile
	err := r.cache.GetJSON(ctx, cacheKey(userID), &p)
	switch {
	case err == nil:
		metrics.ProfileCacheLookups.WithLabelValues("hit").Inc()
		return &p, true
	case errors.Is(err, database.ErrCacheMiss):
		metrics.ProfileCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.ProfileCacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("profile cache read failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
	return nil, false
}

// Invalidate drops the cached profile, e.g. on sign-out.
func (r *Resolver) Invalidate(ctx context.Context, userID string) error {
	if r.cache == nil || userID == "" {
		return nil
	}
	return r.cache.Del(ctx, cacheKey(userID))
}

// Require resolves the identity and fails with IDENTITY_NOT_LOADED when no
// profile is available.
func (r *Resolver) Require(ctx context.Context, userID string) (Identity, error) {
	id, err := r.Resolve(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	if !id.IsLoaded() {
		return Identity{}, apperrors.NewIdentityNotLoadedError(userID)
	}
	return id, nil
}
