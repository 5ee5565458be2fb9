package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
	appErrors "github.com/noah-isme/swim-lesson-gateway/pkg/errors"
	"github.com/noah-isme/swim-lesson-gateway/pkg/refresh"
)

type scopeStore interface {
	Open(ctx context.Context, session models.Session, screens []string) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Claim(ctx context.Context, id, screen string) (bool, error)
	Reset(ctx context.Context, id string) error
	Close(ctx context.Context, id string) error
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RefreshRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRefreshRepository(client, ttl), srv
}

func eachStore(t *testing.T, fn func(t *testing.T, store scopeStore)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryRefreshRepository(time.Hour))
	})
	t.Run("redis", func(t *testing.T) {
		store, _ := newRedisStore(t, time.Hour)
		fn(t, store)
	})
}

func openStudent(t *testing.T, store scopeStore, id string) {
	t.Helper()
	err := store.Open(context.Background(), models.Session{ID: id, UserID: "u1", Role: models.RoleStudent}, []string{"showMyRequests", "requestLesson", "MyCalendar"})
	require.NoError(t, err)
}

func TestScopeStoreClaimOncePerReset(t *testing.T) {
	eachStore(t, func(t *testing.T, store scopeStore) {
		ctx := context.Background()
		openStudent(t, store, "s1")

		ok, err := store.Claim(ctx, "s1", "MyCalendar")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Claim(ctx, "s1", "MyCalendar")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Reset(ctx, "s1"))
		for _, screen := range []string{"showMyRequests", "requestLesson", "MyCalendar"} {
			ok, err := store.Claim(ctx, "s1", screen)
			require.NoError(t, err)
			assert.True(t, ok, screen)
		}
	})
}

func TestScopeStoreUnknownScreenRegisters(t *testing.T) {
	eachStore(t, func(t *testing.T, store scopeStore) {
		ctx := context.Background()
		openStudent(t, store, "s1")

		ok, err := store.Claim(ctx, "s1", "studentProfile")
		require.NoError(t, err)
		assert.True(t, ok)

		session, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, refresh.AlreadyRefreshed, session.Screens["studentProfile"])

		require.NoError(t, store.Reset(ctx, "s1"))
		session, err = store.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, refresh.NeedsRefresh, session.Screens["studentProfile"])
	})
}

func TestScopeStoreGetSnapshot(t *testing.T) {
	eachStore(t, func(t *testing.T, store scopeStore) {
		ctx := context.Background()
		openStudent(t, store, "s1")
		_, err := store.Claim(ctx, "s1", "requestLesson")
		require.NoError(t, err)

		session, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "u1", session.UserID)
		assert.Equal(t, models.RoleStudent, session.Role)
		assert.Equal(t, map[string]refresh.State{
			"showMyRequests": refresh.NeedsRefresh,
			"requestLesson":  refresh.AlreadyRefreshed,
			"MyCalendar":     refresh.NeedsRefresh,
		}, session.Screens)
	})
}

func TestScopeStoreReopenReplacesState(t *testing.T) {
	eachStore(t, func(t *testing.T, store scopeStore) {
		ctx := context.Background()
		openStudent(t, store, "s1")
		_, err := store.Claim(ctx, "s1", "MyCalendar")
		require.NoError(t, err)

		require.NoError(t, store.Open(ctx, models.Session{ID: "s1", UserID: "u1", Role: models.RoleInstructor}, []string{"MyCalendar"}))

		session, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, models.RoleInstructor, session.Role)
		assert.Equal(t, map[string]refresh.State{"MyCalendar": refresh.NeedsRefresh}, session.Screens)
	})
}

func TestScopeStoreUnknownScope(t *testing.T) {
	eachStore(t, func(t *testing.T, store scopeStore) {
		ctx := context.Background()

		_, err := store.Claim(ctx, "missing", "MyCalendar")
		assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
		assert.ErrorIs(t, store.Reset(ctx, "missing"), appErrors.ErrSessionNotFound)
		assert.ErrorIs(t, store.Close(ctx, "missing"), appErrors.ErrSessionNotFound)
		_, err = store.Get(ctx, "missing")
		assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
	})
}

func TestScopeStoreCloseDestroysScope(t *testing.T) {
	eachStore(t, func(t *testing.T, store scopeStore) {
		ctx := context.Background()
		openStudent(t, store, "s1")

		require.NoError(t, store.Close(ctx, "s1"))
		_, err := store.Claim(ctx, "s1", "MyCalendar")
		assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
	})
}

func TestScopeStoreEmptyScreens(t *testing.T) {
	eachStore(t, func(t *testing.T, store scopeStore) {
		ctx := context.Background()
		require.NoError(t, store.Open(ctx, models.Session{ID: "s1", Role: models.RoleInstructor}, nil))

		require.NoError(t, store.Reset(ctx, "s1"))
		ok, err := store.Claim(ctx, "s1", "MyCalendar")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestScopeStoreConcurrentClaimSingleWinner(t *testing.T) {
	eachStore(t, func(t *testing.T, store scopeStore) {
		openStudent(t, store, "s1")

		var (
			wg   sync.WaitGroup
			wins int32
		)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := store.Claim(context.Background(), "s1", "MyCalendar")
				if err == nil && ok {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins)
	})
}

func TestRefreshRepositoryScopeExpires(t *testing.T) {
	store, srv := newRedisStore(t, time.Minute)
	ctx := context.Background()
	openStudent(t, store, "s1")

	assert.Greater(t, srv.TTL(sessionKey("s1")), time.Duration(0))
	assert.Greater(t, srv.TTL(scopeKey("s1")), time.Duration(0))

	srv.FastForward(2 * time.Minute)

	_, err := store.Claim(ctx, "s1", "MyCalendar")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}

func TestRefreshRepositoryStoresFlags(t *testing.T) {
	store, srv := newRedisStore(t, time.Hour)
	ctx := context.Background()
	openStudent(t, store, "s1")

	_, err := store.Claim(ctx, "s1", "MyCalendar")
	require.NoError(t, err)

	assert.Equal(t, flagAlreadyRefreshed, srv.HGet(scopeKey("s1"), "MyCalendar"))
	assert.Equal(t, flagNeedsRefresh, srv.HGet(scopeKey("s1"), "requestLesson"))
}

func TestMemoryRefreshRepositoryExpiry(t *testing.T) {
	store := NewMemoryRefreshRepository(time.Minute)
	now := time.Date(2024, time.June, 5, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()
	openStudent(t, store, "s1")
	openStudent(t, store, "s2")

	now = now.Add(30 * time.Second)
	_, err := store.Claim(ctx, "s1", "MyCalendar")
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	_, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Purge())

	_, err = store.Get(ctx, "s2")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}
