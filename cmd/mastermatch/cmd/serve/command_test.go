package serve

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/cmd/application"
	"github.com/gridlot/mastermatch/internal/server"
	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/logging"
	"github.com/gridlot/mastermatch/pkg/sources"
)

func newApp(t *testing.T) (*application.Mock, *[]int) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []int
	)
	app := &application.Mock{
		ClientFunc: func(opts ...mastermatch.Option) (mastermatch.Client, error) {
			mu.Lock()
			calls = append(calls, len(opts))
			mu.Unlock()
			base := []mastermatch.Option{
				mastermatch.WithSources(sources.NewStatic("test",
					catalog.Entry{Make: "Honda", Model: "Accord", Variant: "EX"},
				)),
				mastermatch.WithLogger(logging.NewNopLogger()),
			}
			return mastermatch.New(append(base, opts...)...)
		},
	}
	return app, &calls
}

func TestConfigFromFlags(t *testing.T) {
	app, _ := newApp(t)
	cmd := NewCommand(app)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9090", "--cors-origins", "https://a.example", "--rate-limit", "0"}))

	base := server.DefaultConfig()
	base.Host = "0.0.0.0"
	cfg, err := configFromFlags(cmd, base)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host, "unset flags keep the configured value")
	assert.True(t, cfg.CORSEnabled)
	assert.Equal(t, []string{"https://a.example"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.RateLimit)
}

func TestConfigFromFlagsValidates(t *testing.T) {
	app, _ := newApp(t)
	cmd := NewCommand(app)
	require.NoError(t, cmd.ParseFlags([]string{"--auth"}))

	_, err := configFromFlags(cmd, server.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestRunServesUntilCancelled(t *testing.T) {
	app, calls := newApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := server.DefaultConfig()
	cfg.RateLimit = 0

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, app, cfg, ln, &out, mastermatch.WithAutoRefreshInterval(time.Hour))
	}()

	url := "http://" + ln.Addr().String() + "/api/v1/ready"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Contains(t, out.String(), "Serving mastermatch API on http://")
	assert.Contains(t, out.String(), "Server stopped")
	assert.Equal(t, []int{1}, *calls)
}

func TestRunClientError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	err = Run(context.Background(), &application.Mock{}, server.DefaultConfig(), ln, &bytes.Buffer{})
	require.ErrorIs(t, err, errors.ErrIndexNotLoaded)
}
