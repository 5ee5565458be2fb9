package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-lesson-gateway/internal/models"
)

type recordingAuditRepo struct {
	mu       sync.Mutex
	entries  []*models.AuditLog
	failures int
}

func (r *recordingAuditRepo) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("db down")
	}
	r.entries = append(r.entries, log)
	return nil
}

func (r *recordingAuditRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func TestAuditServiceRecordsAsync(t *testing.T) {
	repo := &recordingAuditRepo{failures: 1}
	svc := NewAuditService(repo, NewMetricsService(), AuditConfig{Workers: 1, Retries: 2, RetryDelay: time.Millisecond}, nil)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)

	userID := "user-1"
	svc.Record(context.Background(), &models.AuditLog{UserID: &userID, Action: models.AuditActionLessonCreate, Resource: "lesson"})

	require.Eventually(t, func() bool { return repo.len() == 1 }, time.Second, 5*time.Millisecond)
	entry := repo.entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, models.AuditActionLessonCreate, entry.Action)
}

func TestNilAuditServiceIsNoop(t *testing.T) {
	var svc *AuditService
	svc.Start(context.Background())
	svc.Record(context.Background(), &models.AuditLog{Action: "x"})
	svc.Stop()
}
