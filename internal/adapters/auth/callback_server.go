package auth

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

var ErrCallbackTimeout = errors.New("timed out waiting for oauth callback")

// CallbackServer is a short-lived local HTTP server that receives the
// OAuth redirect carrying the token query parameter.
type CallbackServer struct {
	listener net.Listener
	server   *http.Server
	resultCh chan callbackResult

	resultOnce sync.Once
	closeOnce  sync.Once
}

type callbackResult struct {
	token string
	err   error
}

func StartCallbackServer(listenAddr string) (*CallbackServer, error) {
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen callback server: %w", err)
	}

	cb := &CallbackServer{
		listener: listener,
		resultCh: make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/callback", cb.handleCallback)

	cb.server = &http.Server{Handler: mux}

	go func() {
		if serveErr := cb.server.Serve(cb.listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			cb.trySendResult(callbackResult{err: serveErr})
		}
	}()

	return cb, nil
}

func (c *CallbackServer) RedirectURI() string {
	if tcpAddr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d/auth/callback", tcpAddr.Port)
	}
	return "http://localhost/auth/callback"
}

// WaitForToken blocks until the redirect arrives or the timeout elapses,
// and shuts the server down either way.
func (c *CallbackServer) WaitForToken(timeout time.Duration) (string, error) {
	defer c.Close()

	select {
	case result := <-c.resultCh:
		return result.token, result.err
	case <-time.After(timeout):
		return "", ErrCallbackTimeout
	}
}

func (c *CallbackServer) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		closeErr = c.server.Close()
	})
	return closeErr
}

func (c *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if oauthError := r.URL.Query().Get("error"); oauthError != "" {
		c.trySendResult(callbackResult{err: errors.New(oauthError)})
		http.Error(w, "oauth error", http.StatusBadRequest)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		c.trySendResult(callbackResult{err: ErrMissingToken})
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	c.trySendResult(callbackResult{token: token})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Login complete. You can close this window."))
}

func (c *CallbackServer) trySendResult(result callbackResult) {
	c.resultOnce.Do(func() {
		c.resultCh <- result
	})
}
