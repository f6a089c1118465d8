package testserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/cycletrack/internal/app"
	"github.com/rpggio/cycletrack/internal/config"
)

// Today is the fixed clock every test server runs on.
var Today = time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	Token  string
}

// New starts the full HTTP surface over an in-memory SQLite store.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.SQLite.Path = ":memory:"
	cfg.Server.AuthToken = token

	a, err := app.New(context.Background(), cfg, nil, app.WithClock(func() time.Time { return Today }))
	require.NoError(t, err)

	server := httptest.NewServer(a.Handler())

	t.Cleanup(func() {
		server.Close()
		_ = a.Close(context.Background())
	})

	return &TestServer{Server: server, App: a, Token: token}
}
