package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrCallbackTimeout is returned by Wait when no authorization arrived in time.
var ErrCallbackTimeout = errors.New("authorization timeout")

const (
	callbackSuccessPage = `<html><body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
<h1>Authorization Successful!</h1><p>You can close this window and return to your terminal.</p></body></html>`
	callbackStatePage = `<html><body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
<h1>Authorization Failed</h1><p>State parameter mismatch. Please try again.</p></body></html>`
	callbackMissingPage = `<html><body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
<h1>Authorization Error</h1><p>Missing authorization code. Please try again.</p></body></html>`
	callbackDeniedPage = `<html><body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
<h1>Authorization Denied</h1><p>You can close this window.</p></body></html>`
)

type callbackResult struct {
	code string
	err  error
}

// CallbackListener is a one-shot local HTTP server receiving the OAuth 2.0
// redirect. It accepts exactly one authorization (or denial); requests with a
// wrong state or no code are answered with 400 and waiting continues.
type CallbackListener struct {
	state    string
	path     string
	addr     string
	results  chan callbackResult
	once     sync.Once
	server   *http.Server
	listener net.Listener
}

// NewCallbackListener prepares a listener for redirectURL, which must be an
// http URL on a local address, e.g. http://localhost:8081/callback.
func NewCallbackListener(redirectURL, state string) (*CallbackListener, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect url: %w", err)
	}
	if u.Scheme != "http" || u.Host == "" {
		return nil, fmt.Errorf("redirect url must be http://host:port/path, got %q", redirectURL)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	l := &CallbackListener{
		state:   state,
		path:    path,
		addr:    u.Host,
		results: make(chan callbackResult, 1),
	}
	l.server = &http.Server{
		Handler:           l,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return l, nil
}

// Start binds the address and serves in the background.
func (l *CallbackListener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", l.addr, err)
	}
	l.listener = ln
	go func() {
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Callback server stopped")
		}
	}()
	logrus.WithField("addr", ln.Addr().String()).Info("Started local callback server")
	return nil
}

// Addr is the bound address, useful when listening on port 0.
func (l *CallbackListener) Addr() string {
	if l.listener == nil {
		return l.addr
	}
	return l.listener.Addr().String()
}

func (l *CallbackListener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != l.path {
		http.NotFound(w, r)
		return
	}
	query := r.URL.Query()

	if denied := query.Get("error"); denied != "" {
		writePage(w, http.StatusBadRequest, callbackDeniedPage)
		l.deliver(callbackResult{err: fmt.Errorf("authorization denied: %s %s", denied, query.Get("error_description"))})
		return
	}

	code, state := query.Get("code"), query.Get("state")
	if code == "" || state == "" {
		writePage(w, http.StatusBadRequest, callbackMissingPage)
		return
	}
	if state != l.state {
		logrus.Warn("Callback state mismatch")
		writePage(w, http.StatusBadRequest, callbackStatePage)
		return
	}

	writePage(w, http.StatusOK, callbackSuccessPage)
	l.deliver(callbackResult{code: code})
}

func (l *CallbackListener) deliver(res callbackResult) {
	l.once.Do(func() {
		l.results <- res
	})
}

// Wait blocks until the authorization code arrives, the timeout elapses or
// ctx is cancelled. The server is shut down in every case.
func (l *CallbackListener) Wait(ctx context.Context, timeout time.Duration) (string, error) {
	defer l.shutdown()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-l.results:
		return res.code, res.err
	case <-timer.C:
		return "", ErrCallbackTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *CallbackListener) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("Callback server shutdown")
	}
}

func writePage(w http.ResponseWriter, status int, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}
