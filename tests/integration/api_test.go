package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cross-chain-pool/config"
	httpHandler "cross-chain-pool/internal/adapter/http/handler"
	redisStorage "cross-chain-pool/internal/adapter/storage/redis"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/internal/service"
	"cross-chain-pool/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack: two real chain engines, the
// relayer bridging them, miniredis-backed stores, and in-memory history and
// audit repos. This exercises HTTP layer, middleware, services, and the
// event pipeline end-to-end. Block height is advanced manually so tests
// control timelock expiry.

type testApp struct {
	server   *httptest.Server
	redis    *miniredis.Miniredis
	alpha    *service.ChainState
	beta     *service.ChainState
	history  *inMemoryHistoryRepo
	audit    *inMemoryAuditRepo
	relayer  *service.Relayer
	recorder *service.HistoryRecorder
	cancel   context.CancelFunc
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	log := logger.New("error", false)

	swapCfg := config.SwapConfig{
		DefaultTimeLockBlocks: 100,
		MinAmount:             1,
		MaxAmount:             1000000,
	}

	hashSvc := service.NewBcryptHashService()
	ownerHash, err := hashSvc.Hash("owner-pass")
	require.NoError(t, err)
	responderHash, err := hashSvc.Hash("responder-pass")
	require.NoError(t, err)

	operators := []domain.Operator{
		{Username: "owner", PasswordHash: ownerHash, Role: domain.RoleOwner, Address: "acct:owner"},
		{Username: "responder", PasswordHash: responderHash, Role: domain.RoleResponder, Address: "acct:responder"},
	}

	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", time.Hour, "test-issuer")
	authSvc := service.NewAuthService(operators, hashSvc, tokenSvc)

	history := newInMemoryHistoryRepo()
	auditRepo := newInMemoryAuditRepo()
	auditSvc := service.NewAuditService(auditRepo, log)
	reportingSvc := service.NewReportingService(history)

	buildChain := func(name, symbol string) (*service.ChainState, *service.EventBus, httpHandler.ChainServices, *service.RelayerChain) {
		bus := service.NewEventBus(log)
		state := service.NewChainState(service.ChainParams{
			Name:         name,
			NativeSymbol: symbol,
			InitialRate:  1000000000, // 1000 units per native
			Owner:        "acct:owner",
			Responder:    "acct:responder",
		}, bus, log)

		swaps := service.NewSwapService(state, swapCfg, log)
		locks := service.NewLockService(state, swapCfg, log)

		svcs := httpHandler.ChainServices{
			PoolSvc:  service.NewPoolService(state, log),
			SwapSvc:  swaps,
			LockSvc:  locks,
			AdminSvc: service.NewAdminService(state, log),
		}
		rc := &service.RelayerChain{
			Name:      name,
			Events:    bus,
			Swaps:     swaps,
			Locks:     locks,
			Height:    state.Height,
			Responder: "acct:responder",
		}
		return state, bus, svcs, rc
	}

	alphaState, alphaBus, alphaSvcs, alphaRC := buildChain("alpha", "ALP")
	betaState, betaBus, betaSvcs, betaRC := buildChain("beta", "BET")

	ctx, cancel := context.WithCancel(context.Background())

	recorder := service.NewHistoryRecorder(history, log)
	recorder.Start(ctx, alphaBus, betaBus)

	relayer := service.NewRelayer(alphaRC, betaRC, redisStorage.NewDedupStore(rdb), config.RelayerConfig{
		Enabled:     true,
		MaxAttempts: 3,
		RetryDelay:  10 * time.Millisecond,
	}, log)
	relayer.Start(ctx)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Chains: map[string]httpHandler.ChainServices{
			"alpha": alphaSvcs,
			"beta":  betaSvcs,
		},
		AuthSvc:        authSvc,
		TokenSvc:       tokenSvc,
		ReportingSvc: reportingSvc,
		AuditSvc:     auditSvc,
		// Rate limiting stays off so Eventually-style polling is not throttled;
		// the limiter has its own middleware tests.
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Logger:         log,
	})

	server := httptest.NewServer(router)

	app := &testApp{
		server:   server,
		redis:    mr,
		alpha:    alphaState,
		beta:     betaState,
		history:  history,
		audit:    auditRepo,
		relayer:  relayer,
		recorder: recorder,
		cancel:   cancel,
	}
	t.Cleanup(app.close)
	return app
}

func (a *testApp) close() {
	a.relayer.Stop()
	a.recorder.Stop()
	a.cancel()
	a.server.Close()
}

// --- HTTP helpers ---

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(http.MethodPost, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func decodeData(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "no data object in response: %v", body)
	return data
}

func login(t *testing.T, app *testApp, username, password string) string {
	t.Helper()
	resp := postJSON(t, app.server.URL+"/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func deposit(t *testing.T, app *testApp, chain, account string, amount int64) map[string]interface{} {
	t.Helper()
	resp := postJSON(t, fmt.Sprintf("%s/api/v1/chains/%s/pool/deposit", app.server.URL, chain), "", map[string]interface{}{
		"account": account,
		"amount":  amount,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeData(t, resp)
}

func balanceOf(t *testing.T, app *testApp, chain, account string) int64 {
	t.Helper()
	resp := getJSON(t, fmt.Sprintf("%s/api/v1/chains/%s/balances/%s", app.server.URL, chain, account), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	return int64(data["balance"].(float64))
}

func totalSupply(t *testing.T, app *testApp, chain string) int64 {
	t.Helper()
	resp := getJSON(t, fmt.Sprintf("%s/api/v1/chains/%s", app.server.URL, chain), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	return int64(data["total_supply"].(float64))
}

func lockStatus(t *testing.T, app *testApp, chain, hashLock string) (string, bool) {
	t.Helper()
	resp := getJSON(t, fmt.Sprintf("%s/api/v1/chains/%s/locks/%s", app.server.URL, chain, hashLock), "")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return "", false
	}
	data := decodeData(t, resp)
	status, _ := data["status"].(string)
	return status, true
}

// --- Basic plumbing tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp := getJSON(t, app.server.URL+"/health", "")
	body := decodeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_Login(t *testing.T) {
	app := newTestApp(t)

	token := login(t, app, "responder", "responder-pass")
	assert.NotEmpty(t, token)
}

func TestIntegration_LoginWrongCredentials(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app.server.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "responder",
		"password": "wrong",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_DepositAndWithdraw(t *testing.T) {
	app := newTestApp(t)

	data := deposit(t, app, "alpha", "alice", 2)
	assert.Equal(t, float64(2000), data["units"])
	assert.Equal(t, int64(2000), balanceOf(t, app, "alpha", "alice"))

	resp := postJSON(t, app.server.URL+"/api/v1/chains/alpha/pool/withdraw", "", map[string]interface{}{
		"account": "alice",
		"units":   2000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	wd := decodeData(t, resp)
	assert.Equal(t, float64(2), wd["native_amount"])
	assert.Equal(t, int64(0), balanceOf(t, app, "alpha", "alice"))
}

// --- Cross-chain scenarios ---

// Happy path: deposit, initiate on alpha, relayer prepares the counterparty
// lock on beta with a smaller window, sender reveals the secret, relayer
// releases the beta lock to the recipient.
func TestIntegration_CrossChainHappyPath(t *testing.T) {
	app := newTestApp(t)

	deposit(t, app, "alpha", "alice", 1)

	resp := postJSON(t, app.server.URL+"/api/v1/chains/alpha/swaps", "", map[string]interface{}{
		"sender":           "alice",
		"recipient":        "bob",
		"amount":           500,
		"time_lock_blocks": 50,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sw := decodeData(t, resp)
	swapID := sw["swap_id"].(string)
	hashLock := sw["hash_lock"].(string)
	secret := sw["secret"].(string)
	require.NotEmpty(t, secret)

	// Relayer prepares the matching lock on beta
	require.Eventually(t, func() bool {
		status, ok := lockStatus(t, app, "beta", hashLock)
		return ok && status == "OPEN"
	}, 2*time.Second, 10*time.Millisecond)

	// Sender claims with the secret; custody burns on alpha
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/chains/alpha/swaps/%s/complete", app.server.URL, swapID), "", map[string]string{
		"secret": secret,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Relayer propagates the revealed secret to beta
	require.Eventually(t, func() bool {
		status, ok := lockStatus(t, app, "beta", hashLock)
		return ok && status == "COMPLETED"
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int64(500), balanceOf(t, app, "beta", "bob"))
	assert.Equal(t, int64(500), balanceOf(t, app, "alpha", "alice"))
	assert.Equal(t, int64(500), totalSupply(t, app, "alpha"))
	assert.Equal(t, int64(500), totalSupply(t, app, "beta"))
}

// Timeout path: nobody reveals the secret, both sides refund once their
// windows pass. The lock window closes first.
func TestIntegration_CrossChainTimeoutRefund(t *testing.T) {
	app := newTestApp(t)

	deposit(t, app, "alpha", "alice", 1)

	resp := postJSON(t, app.server.URL+"/api/v1/chains/alpha/swaps", "", map[string]interface{}{
		"sender":           "alice",
		"recipient":        "bob",
		"amount":           500,
		"time_lock_blocks": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sw := decodeData(t, resp)
	swapID := sw["swap_id"].(string)
	hashLock := sw["hash_lock"].(string)

	require.Eventually(t, func() bool {
		_, ok := lockStatus(t, app, "beta", hashLock)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	responderToken := login(t, app, "responder", "responder-pass")

	// Lock window (half the sender margin) must pass before the refund lands
	for i := 0; i < 6; i++ {
		app.beta.AdvanceHeight()
	}
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/chains/beta/locks/%s/refund", app.server.URL, hashLock), responderToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Sender refund still blocked until the swap window passes
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/chains/alpha/swaps/%s/refund", app.server.URL, swapID), "", map[string]string{
		"caller": "alice",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "SWAP_005", body["error_code"])
	assert.Equal(t, float64(11), body["retry_after_height"])

	for i := 0; i < 11; i++ {
		app.alpha.AdvanceHeight()
	}
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/chains/alpha/swaps/%s/refund", app.server.URL, swapID), "", map[string]string{
		"caller": "alice",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, int64(1000), balanceOf(t, app, "alpha", "alice"))
	assert.Equal(t, int64(0), balanceOf(t, app, "beta", "bob"))
	assert.Equal(t, int64(0), totalSupply(t, app, "beta"))
	assert.Equal(t, int64(1000), totalSupply(t, app, "alpha"))
}

// Replay: a second complete on a finished swap reports AlreadyFinal, and the
// balances do not move again.
func TestIntegration_CompleteReplayIsRejected(t *testing.T) {
	app := newTestApp(t)

	deposit(t, app, "alpha", "alice", 1)

	resp := postJSON(t, app.server.URL+"/api/v1/chains/alpha/swaps", "", map[string]interface{}{
		"sender":    "alice",
		"recipient": "bob",
		"amount":    500,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sw := decodeData(t, resp)
	swapID := sw["swap_id"].(string)
	secret := sw["secret"].(string)

	resp = postJSON(t, fmt.Sprintf("%s/api/v1/chains/alpha/swaps/%s/complete", app.server.URL, swapID), "", map[string]string{
		"secret": secret,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	supplyAfter := totalSupply(t, app, "alpha")

	resp = postJSON(t, fmt.Sprintf("%s/api/v1/chains/alpha/swaps/%s/complete", app.server.URL, swapID), "", map[string]string{
		"secret": secret,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "SWAP_003", body["error_code"])

	assert.Equal(t, supplyAfter, totalSupply(t, app, "alpha"))
}

// Wrong secret: the claim fails and the swap stays open and claimable.
func TestIntegration_WrongSecretLeavesSwapOpen(t *testing.T) {
	app := newTestApp(t)

	deposit(t, app, "alpha", "alice", 1)

	resp := postJSON(t, app.server.URL+"/api/v1/chains/alpha/swaps", "", map[string]interface{}{
		"sender":    "alice",
		"recipient": "bob",
		"amount":    500,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sw := decodeData(t, resp)
	swapID := sw["swap_id"].(string)
	secret := sw["secret"].(string)

	wrong := "ff" + secret[2:]
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/chains/alpha/swaps/%s/complete", app.server.URL, swapID), "", map[string]string{
		"secret": wrong,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "SWAP_006", body["error_code"])

	resp = getJSON(t, fmt.Sprintf("%s/api/v1/chains/alpha/swaps/%s", app.server.URL, swapID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Equal(t, "OPEN", data["status"])
}

// --- Admin and reporting ---

func TestIntegration_PauseBlocksOperations(t *testing.T) {
	app := newTestApp(t)

	ownerToken := login(t, app, "owner", "owner-pass")

	resp := postJSON(t, app.server.URL+"/api/v1/chains/alpha/admin/pause", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app.server.URL+"/api/v1/chains/alpha/pool/deposit", "", map[string]interface{}{
		"account": "alice",
		"amount":  1,
	})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "ADMIN_001", body["error_code"])

	resp = postJSON(t, app.server.URL+"/api/v1/chains/alpha/admin/unpause", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	deposit(t, app, "alpha", "alice", 1)

	// Pause and unpause land in the audit trail
	require.Eventually(t, func() bool {
		actions := make(map[domain.AdminAction]bool)
		for _, e := range app.audit.all() {
			actions[e.Action] = true
		}
		return actions[domain.AdminActionPause] && actions[domain.AdminActionUnpause]
	}, 2*time.Second, 10*time.Millisecond)
}

func TestIntegration_AdminRequiresOwner(t *testing.T) {
	app := newTestApp(t)

	responderToken := login(t, app, "responder", "responder-pass")

	resp := postJSON(t, app.server.URL+"/api/v1/chains/alpha/admin/pause", responderToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "AUTH_001", body["error_code"])
}

func TestIntegration_SetRateIsResponderOnly(t *testing.T) {
	app := newTestApp(t)

	ownerToken := login(t, app, "owner", "owner-pass")
	responderToken := login(t, app, "responder", "responder-pass")

	req, err := http.NewRequest(http.MethodPut, app.server.URL+"/api/v1/chains/alpha/admin/rate",
		bytes.NewReader([]byte(`{"rate":2000000000}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	req, err = http.NewRequest(http.MethodPut, app.server.URL+"/api/v1/chains/alpha/admin/rate",
		bytes.NewReader([]byte(`{"rate":2000000000}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+responderToken)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// New rate applies to subsequent deposits
	data := deposit(t, app, "alpha", "carol", 1)
	assert.Equal(t, float64(2000), data["units"])
}

func TestIntegration_HistoryAndStats(t *testing.T) {
	app := newTestApp(t)

	deposit(t, app, "alpha", "alice", 1)

	resp := postJSON(t, app.server.URL+"/api/v1/chains/alpha/swaps", "", map[string]interface{}{
		"sender":    "alice",
		"recipient": "bob",
		"amount":    200,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	token := login(t, app, "owner", "owner-pass")

	require.Eventually(t, func() bool {
		resp := getJSON(t, app.server.URL+"/api/v1/chains/alpha/stats?period=all", token)
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return false
		}
		data := decodeData(t, resp)
		return data["initiated"].(float64) >= 1
	}, 2*time.Second, 20*time.Millisecond)

	resp = getJSON(t, app.server.URL+"/api/v1/chains/alpha/history?type=SWAP_INITIATED", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Equal(t, float64(1), data["total"])
}

func TestIntegration_HistoryRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	resp := getJSON(t, app.server.URL+"/api/v1/chains/alpha/history", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
