package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/config"
	"github.com/mmynk/beercounter/pkg/api"
	"github.com/mmynk/beercounter/pkg/api/apiconnect"
)

const testSecret = "0123456789abcdef"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	out, err := run(t, "token", "--uid", "u1", "--name", "Alice", "--ttl", "1h")
	require.NoError(t, err)

	id, err := auth.NewJWTManager(testSecret, time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UID)
	assert.Equal(t, "Alice", id.Name)

	_, err = run(t, "token")
	assert.ErrorContains(t, err, "--uid is required")

	t.Setenv("JWT_SECRET", "short")
	_, err = run(t, "token", "--uid", "u1")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "beercounter.db")

	out, err := run(t, "--db", dbPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "dirty=false")
	assert.NotContains(t, out, "schema version 0 ")

	again, err := run(t, "--db", dbPath, "migrate")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSweepCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	dbPath := filepath.Join(t.TempDir(), "beercounter.db")

	out, err := run(t, "--db", dbPath, "sweep")
	require.NoError(t, err)
	assert.Equal(t, "groups=0 events=0 failed=0\n", out)

	t.Setenv("JWT_SECRET", "")
	_, err = run(t, "--store", "memory", "sweep")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestUnknownStoreBackend(t *testing.T) {
	cfg := testConfig()
	cfg.StoreBackend = "postgres"
	_, err := newApp(cfg, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "unknown store backend")
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		CORSOrigins:       []string{"*"},
		StoreBackend:      "memory",
		JWTSecret:         testSecret,
		TokenTTL:          time.Hour,
		MaxUpdateAttempts: 10,
		HistoryLimit:      10,
		AgingThreshold:    30 * 24 * time.Hour,
		ShameCooldown:     7 * 24 * time.Hour,
		SweepConcurrency:  2,
		NotifyBackend:     "inbox",
	}
}

func TestRouter(t *testing.T) {
	cfg := testConfig()
	logger := slog.New(slog.DiscardHandler)
	a, err := newApp(cfg, logger)
	require.NoError(t, err)
	defer a.Close()

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	server := httptest.NewServer(newRouter(cfg, a, tokens, logger))
	defer server.Close()

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("rpc requires a token", func(t *testing.T) {
		client := apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL)
		_, err := client.ListMyGroups(context.Background(), connect.NewRequest(&api.ListMyGroupsRequest{}))
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("authenticated rpc", func(t *testing.T) {
		token, err := tokens.Generate(auth.Identity{UID: "alice", Name: "Alice"})
		require.NoError(t, err)

		client := apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL)
		req := connect.NewRequest(&api.CreateGroupRequest{Name: "Giovedì"})
		req.Header().Set("Authorization", "Bearer "+token)
		created, err := client.CreateGroup(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Giovedì", created.Msg.Group.Name)

		list := connect.NewRequest(&api.ListMyGroupsRequest{})
		list.Header().Set("Authorization", "Bearer "+token)
		groups, err := client.ListMyGroups(context.Background(), list)
		require.NoError(t, err)
		require.Len(t, groups.Msg.Groups, 1)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "go_goroutines")
	})
}
