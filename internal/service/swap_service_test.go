package service

import (
	"context"
	"testing"

	"cross-chain-pool/config"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/hashlock"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSwapService(t *testing.T) (*SwapServiceImpl, *ChainState) {
	t.Helper()
	state, _ := newTestChain(t, 1000*RatePrecision)
	cfg := config.SwapConfig{
		DefaultTimeLockBlocks: 100,
		MinAmount:             10,
		MaxAmount:             10000,
	}
	return NewSwapService(state, cfg, zerolog.Nop()), state
}

func TestSwapService_InitiateGeneratesSecretWhenAbsent(t *testing.T) {
	svc, state := newSwapService(t)
	_, err := state.Deposit(testSender, 1)
	require.NoError(t, err)

	res, err := svc.Initiate(context.Background(), ports.InitiateRequest{
		Sender:    testSender,
		Recipient: testRecipient,
		Amount:    500,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Secret, "server-side secret must be returned once")
	assert.True(t, hashlock.Verify(res.Secret, res.Swap.HashLock), "returned secret must open the stored hash lock")
	assert.Equal(t, state.Height()+100, res.Swap.TimeLock, "default window applies when none requested")
}

func TestSwapService_InitiateUsesCallerHashLock(t *testing.T) {
	svc, state := newSwapService(t)
	_, err := state.Deposit(testSender, 1)
	require.NoError(t, err)

	_, lock := mustSecret(t)
	res, err := svc.Initiate(context.Background(), ports.InitiateRequest{
		Sender:         testSender,
		Recipient:      testRecipient,
		Amount:         500,
		TimeLockBlocks: 25,
		HashLock:       lock,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Secret, "no secret is generated for a caller-supplied lock")
	assert.Equal(t, lock, res.Swap.HashLock)
	assert.Equal(t, state.Height()+25, res.Swap.TimeLock)
}

func TestSwapService_InitiateEnforcesAmountBounds(t *testing.T) {
	svc, state := newSwapService(t)
	_, err := state.Deposit(testSender, 100)
	require.NoError(t, err)

	tests := []struct {
		name   string
		amount int64
	}{
		{"below minimum", 9},
		{"above maximum", 10001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Initiate(context.Background(), ports.InitiateRequest{
				Sender:    testSender,
				Recipient: testRecipient,
				Amount:    tt.amount,
			})
			assertCode(t, err, "VAL_001")
		})
	}
}

func TestSwapService_GetDerivesStatus(t *testing.T) {
	svc, state := newSwapService(t)
	_, err := state.Deposit(testSender, 1)
	require.NoError(t, err)

	res, err := svc.Initiate(context.Background(), ports.InitiateRequest{
		Sender:         testSender,
		Recipient:      testRecipient,
		Amount:         500,
		TimeLockBlocks: 5,
	})
	require.NoError(t, err)

	view, err := svc.Get(context.Background(), res.Swap.ID)
	require.NoError(t, err)
	assert.Equal(t, "OPEN", string(view.Status))
	assert.False(t, view.Expired)

	advance(state, 6)
	view, err = svc.Get(context.Background(), res.Swap.ID)
	require.NoError(t, err)
	assert.Equal(t, "EXPIRED", string(view.Status))
	assert.True(t, view.Expired)
}

func TestSwapService_ActiveExcludesTerminal(t *testing.T) {
	svc, state := newSwapService(t)
	_, err := state.Deposit(testSender, 2)
	require.NoError(t, err)

	first, err := svc.Initiate(context.Background(), ports.InitiateRequest{
		Sender: testSender, Recipient: testRecipient, Amount: 300,
	})
	require.NoError(t, err)
	second, err := svc.Initiate(context.Background(), ports.InitiateRequest{
		Sender: testSender, Recipient: testRecipient, Amount: 400,
	})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), first.Swap.ID, first.Secret)
	require.NoError(t, err)

	active, err := svc.Active(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.Swap.ID, active[0].Swap.ID)
}
