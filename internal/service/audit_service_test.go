package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuditService_LogPersistsEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(repo, zerolog.Nop())

	done := make(chan struct{})
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AuditEntry) error {
			assert.NotEqual(t, uuid.Nil, entry.ID)
			assert.False(t, entry.CreatedAt.IsZero())
			assert.Equal(t, domain.AdminActionPause, entry.Action)
			close(done)
			return nil
		})

	svc.Log(context.Background(), &domain.AuditEntry{
		Chain:  "ethereum",
		Actor:  testOwner,
		Action: domain.AdminActionPause,
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry was never persisted")
	}
}

func TestAuditService_LogSurvivesRepoFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(repo, zerolog.Nop())

	done := make(chan struct{})
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *domain.AuditEntry) error {
			close(done)
			return errors.New("db down")
		})

	// Must not panic or propagate the failure.
	svc.Log(context.Background(), &domain.AuditEntry{
		Actor:  testOwner,
		Action: domain.AdminActionSetRate,
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("audit repo was never called")
	}
}

func TestAuditService_NilRepoLogsOnly(t *testing.T) {
	svc := NewAuditService(nil, zerolog.Nop())

	// Fire-and-forget with no repository configured must be a safe no-op.
	svc.Log(context.Background(), &domain.AuditEntry{
		Actor:  testOwner,
		Action: domain.AdminActionUnpause,
	})
}
