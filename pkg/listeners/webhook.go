package listeners

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"tgo/pkg/stoptoken"
	"tgo/pkg/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// secretTokenHeader is the header Telegram sets on webhook POSTs when a
// secret token was registered via setWebhook (spec.md §4.6).
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookConfig configures the webhook receiver.
type WebhookConfig struct {
	// Addr is the local address to listen on, e.g. ":8443".
	Addr string
	// Path is the HTTP path Telegram POSTs updates to.
	Path string
	// SecretToken, if set, must match the X-Telegram-Bot-Api-Secret-Token
	// header on every incoming request; mismatches are rejected with 401.
	SecretToken string
	// ShutdownTimeout bounds how long the HTTP server's graceful shutdown
	// waits for in-flight requests after Stop. The stream itself closes
	// only once every admitted request has finished. Defaults to 5s if
	// zero.
	ShutdownTimeout time.Duration
	// MaxBodyBytes caps how much of an incoming request body is read
	// before the connection is rejected, so an oversized POST (malicious
	// or otherwise) can't be used to exhaust memory. Defaults to 1MiB if
	// zero; Telegram's own updates are far smaller than this.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 1 << 20

// Webhook is the webhook update listener (spec.md §4.6). It runs its own
// HTTP server; stopping it (via StopToken().Stop()) stops accepting new
// requests, waits for in-flight handlers to finish enqueueing their
// update, then closes the stream — any updates already buffered on the
// channel are still delivered to the dispatcher (scenario E5).
type Webhook struct {
	cfg     WebhookConfig
	server  *http.Server
	stopTok *stoptoken.Token
	updates chan Result

	mu       sync.Mutex
	closed   bool
	inFlight sync.WaitGroup
}

// NewWebhook starts an HTTP server per cfg and returns the listener.
func NewWebhook(cfg WebhookConfig) *Webhook {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	w := &Webhook{
		cfg:     cfg,
		stopTok: stoptoken.New(),
		updates: make(chan Result, 64),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Path, w.handle)
	w.server = &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		if err := w.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if w.enter() {
				w.updates <- Result{Err: &ListenerError{Err: err}}
				w.inFlight.Done()
			}
		}
	}()
	go w.awaitStop()

	return w
}

func (w *Webhook) Updates() <-chan Result      { return w.updates }
func (w *Webhook) StopToken() *stoptoken.Token { return w.stopTok }

func (w *Webhook) handle(rw http.ResponseWriter, r *http.Request) {
	if !w.enter() {
		rw.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	defer w.inFlight.Done()

	if w.cfg.SecretToken != "" && !constantTimeEqual(r.Header.Get(secretTokenHeader), w.cfg.SecretToken) {
		rw.WriteHeader(http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(rw, r.Body, w.cfg.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		rw.WriteHeader(http.StatusBadRequest)
		w.updates <- Result{Err: &ListenerError{Err: err}}
		return
	}

	var u types.Update
	if err := json.Unmarshal(body, &u); err != nil {
		rw.WriteHeader(http.StatusBadRequest)
		w.updates <- Result{Err: &ListenerError{Err: err}}
		return
	}

	w.updates <- Result{Update: u}
	rw.WriteHeader(http.StatusOK)
}

// enter admits one in-flight request unless the listener has already
// begun stopping, atomically with the Add/Wait pairing awaitStop relies
// on to avoid the classic "Add after Wait returned" race.
func (w *Webhook) enter() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.inFlight.Add(1)
	return true
}

func (w *Webhook) awaitStop() {
	<-w.stopTok.Done()

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.ShutdownTimeout)
	defer cancel()
	w.server.Shutdown(ctx)

	w.inFlight.Wait()
	close(w.updates)
}

// constantTimeEqual compares the secret token header in time independent of
// where the two strings first differ, so a timing side-channel can't narrow
// down the configured secret byte-by-byte.
func constantTimeEqual(got, want string) bool {
	if len(got) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
