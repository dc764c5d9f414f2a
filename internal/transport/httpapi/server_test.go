package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/dwikikusuma/shoping-voice/internal/tools"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []string
	body  string
}

// Dispatch succeeds for "echo" and reports an unknown tool for anything
// else, the way the registry does.
func (f *fakeDispatcher) Dispatch(ctx context.Context, sessionID, name string, raw []byte) tools.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sessionID+"/"+name)
	f.body = string(raw)
	if name == "echo" {
		return tools.Result{Success: true, Message: "ok", Data: map[string]any{"session": sessionID}}
	}
	return tools.Result{Message: "unknown tool: " + name, Code: "NOT_FOUND"}
}

func (f *fakeDispatcher) Definitions() ([]openai.Tool, error) {
	return []openai.Tool{{Type: openai.ToolTypeFunction, Function: &openai.FunctionDefinition{Name: "echo"}}}, nil
}

type fakeSessions map[string]bool

func (f fakeSessions) Delete(id string) bool {
	ok := f[id]
	delete(f, id)
	return ok
}

func newServer(t *testing.T, d *fakeDispatcher, ready map[string]ReadyCheck) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(Options{
		Tools:    d,
		Sessions: fakeSessions{"s1": true},
		Ready:    ready,
		Log:      logger.Discard(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, sonic.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestCallTool(t *testing.T) {
	d := &fakeDispatcher{}
	srv := newServer(t, d, nil)

	resp, body := do(t, http.MethodPost, srv.URL+"/v1/sessions/s1/tools/echo", `{"x":1}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Equal(t, []string{"s1/echo"}, d.calls)
	assert.Equal(t, `{"x":1}`, d.body)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestCallToolFailureMapsStatus(t *testing.T) {
	srv := newServer(t, &fakeDispatcher{}, nil)

	resp, body := do(t, http.MethodPost, srv.URL+"/v1/sessions/s1/tools/nope", `{}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestListTools(t *testing.T) {
	srv := newServer(t, &fakeDispatcher{}, nil)

	resp, body := do(t, http.MethodGet, srv.URL+"/v1/tools", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["tools"], 1)
}

func TestDeleteSession(t *testing.T) {
	srv := newServer(t, &fakeDispatcher{}, nil)

	resp, _ := do(t, http.MethodDelete, srv.URL+"/v1/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := do(t, http.MethodDelete, srv.URL+"/v1/sessions/s1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotNil(t, body["error"])
}

func TestHealthAndReadiness(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := newServer(t, &fakeDispatcher{}, map[string]ReadyCheck{
		"fraud_db": func(ctx context.Context) error {
			if !healthy.Load() {
				return errors.New("closed")
			}
			return nil
		},
	})

	resp, _ := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	healthy.Store(false)
	resp, body := do(t, http.MethodGet, srv.URL+"/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unavailable", body["status"])
}

func TestBodyTooLarge(t *testing.T) {
	srv := newServer(t, &fakeDispatcher{}, nil)

	resp, _ := do(t, http.MethodPost, srv.URL+"/v1/sessions/s1/tools/echo", strings.Repeat("a", maxBodyBytes+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
