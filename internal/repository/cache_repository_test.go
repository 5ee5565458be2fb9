package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client, "gateway:", zap.NewNop()), srv
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()

	in := models.Instructor{ID: "i1", Name: "Dana", Expertise: []string{"freestyle"}}
	require.NoError(t, repo.Set(ctx, "instructors:i1", in, time.Minute))
	assert.True(t, srv.Exists("gateway:instructors:i1"))

	var out models.Instructor
	require.NoError(t, repo.Get(ctx, "instructors:i1", &out))
	assert.Equal(t, in, out)
}

func TestCacheRepositoryMiss(t *testing.T) {
	repo, _ := newCacheRepo(t)

	var out models.Instructor
	err := repo.Get(context.Background(), "instructors:none", &out)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	nilRepo := NewCacheRepository(nil, "", nil)
	assert.ErrorIs(t, nilRepo.Get(context.Background(), "x", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, nilRepo.Set(context.Background(), "x", out, time.Minute))
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "instructors:i1", "a", time.Minute))
	require.NoError(t, repo.Set(ctx, "instructors:page:1:4", "b", time.Minute))
	require.NoError(t, repo.Set(ctx, "other", "c", time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "instructors:*"))

	assert.False(t, srv.Exists("gateway:instructors:i1"))
	assert.False(t, srv.Exists("gateway:instructors:page:1:4"))
	assert.True(t, srv.Exists("gateway:other"))
}
