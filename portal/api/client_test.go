package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_Get(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "sess-1", mustCookie(t, r, "session"))
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	transport := New()
	resp, err := transport.Send(context.Background(), Request{
		Method:  http.MethodGet,
		URL:     srv.URL,
		Cookies: []*http.Cookie{{Name: "session", Value: "sess-1"}},
	})
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, "<html>ok</html>", string(resp.Body))
}

func TestSend_DebugTracesRequest(t *testing.T) {

	t.Setenv("PORTAL_DEBUG", "true")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	transport := New()
	resp, err := transport.Send(context.Background(), Request{
		Method: http.MethodGet,
		URL:    srv.URL,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
}

func TestSend_NoRedirectCapturesLocation(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/Activation_Code?status=1", http.StatusFound)
	}))
	defer srv.Close()

	transport := New()
	resp, err := transport.Send(context.Background(), Request{
		Method:     http.MethodPost,
		URL:        srv.URL,
		Form:       map[string]string{"Code": "ABCD1234EFGH5678"},
		NoRedirect: true,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/Activation_Code?status=1", resp.Location)
}

func TestSend_FollowsRedirectsByDefault(t *testing.T) {

	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("landed"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	transport := New()
	resp, err := transport.Send(context.Background(), Request{Method: http.MethodGet, URL: srv.URL + "/start"})
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, "landed", string(resp.Body))
}

func TestSend_TimeoutIsDistinctError(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	transport := New()
	_, err := transport.Send(context.Background(), Request{
		Method:  http.MethodGet,
		URL:     srv.URL,
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrConnection)
}

func TestSend_ConnectionFailure(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	transport := New()
	_, err := transport.Send(context.Background(), Request{Method: http.MethodGet, URL: url})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestSend_HTTPErrorIsResponseNotTransportError(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	transport := New()
	resp, err := transport.Send(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)

	assert.False(t, resp.OK())

	var reqErr *RequestError
	require.ErrorAs(t, resp.AsError(), &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
}

func mustCookie(t *testing.T, r *http.Request, name string) string {
	t.Helper()
	c, err := r.Cookie(name)
	require.NoError(t, err)
	return c.Value
}
