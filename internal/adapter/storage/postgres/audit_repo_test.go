package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"cross-chain-pool/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepository(mock)
	entry := &domain.AuditEntry{
		ID:        uuid.New(),
		Chain:     "alpha",
		Actor:     "acct:owner",
		Action:    domain.AdminActionSetRate,
		Details:   `{"rate":2000000000}`,
		IPAddress: "192.168.1.1",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO audit_entries").
		WithArgs(
			entry.ID, entry.Chain, string(entry.Actor), string(entry.Action),
			entry.Details, entry.IPAddress, entry.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepository(mock)
	entry := &domain.AuditEntry{
		ID:        uuid.New(),
		Actor:     "acct:owner",
		Action:    domain.AdminActionPause,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_entries").
		WithArgs(
			entry.ID, entry.Chain, string(entry.Actor), string(entry.Action),
			entry.Details, entry.IPAddress, entry.CreatedAt,
		).
		WillReturnError(errors.New("connection refused"))

	err = repo.Create(context.Background(), entry)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
