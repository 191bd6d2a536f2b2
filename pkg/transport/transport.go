// Package transport implements the HTTP transport (spec.md §4.2 /
// component B): method/file URL construction, the POST call, and file
// download including the local-Bot-API-server filesystem shortcut.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"tgo/pkg/codec"
	"tgo/pkg/token"
)

// serverErrorDelay is the fixed smoothing delay applied after a 5xx
// response, matching spec.md §4.2 ("the transport applies a fixed delay
// before returning, to smooth reconnection storms").
const serverErrorDelay = 10 * time.Second

// Transport owns the HTTP client, token and API base URL shared by every
// request a Bot handle issues (spec.md §3 "Ownership").
type Transport struct {
	Client  *http.Client
	Token   token.Token
	BaseURL string // e.g. "https://api.telegram.org"
}

// New builds a Transport with the teacher's connection tuning (custom
// dialer + pooled http.Transport — see pkg/channels/telegram in the
// original application this framework's style is drawn from), wired to
// an outer context so a stop-token can abort an in-flight long-poll
// request immediately instead of leaving it to time out. proxyURL, if
// non-empty, routes every request through it (spec.md §6 "TGO_PROXY").
func New(ctx context.Context, tok token.Token, baseURL, proxyURL string, timeout time.Duration) *Transport {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}

	httpTransport := &http.Transport{
		DialContext: func(dialCtx context.Context, network, addr string) (net.Conn, error) {
			merged, cancel := context.WithCancel(dialCtx)
			go func() {
				select {
				case <-ctx.Done():
					cancel()
				case <-merged.Done():
				}
			}()
			return dialer.DialContext(merged, network, addr)
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			httpTransport.Proxy = http.ProxyURL(u)
		}
	}

	client := &http.Client{Timeout: timeout, Transport: httpTransport}

	return &Transport{Client: client, Token: tok, BaseURL: baseURL}
}

// MethodURL builds "<api>/bot<token>/<method>" (spec.md §6).
func (t *Transport) MethodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", strings.TrimRight(t.BaseURL, "/"), t.Token, method)
}

// FileURL builds "<api>/file/bot<token>/<path>" (spec.md §6).
func (t *Transport) FileURL(filePath string) string {
	return fmt.Sprintf("%s/file/bot%s/%s", strings.TrimRight(t.BaseURL, "/"), t.Token, filePath)
}

// Call performs the raw HTTP call for any payload's encoded body,
// applying the 5xx smoothing delay and redacting the token in any error
// that escapes (spec.md §4.1 "Token redaction", §4.2).
func (t *Transport) Call(ctx context.Context, method, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.MethodURL(method), bytes.NewReader(body))
	if err != nil {
		return nil, token.RedactErr(&codec.NetworkError{Err: err}, t.Token)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, token.RedactErr(&codec.NetworkError{Err: err}, t.Token)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, token.RedactErr(&codec.NetworkError{Err: err}, t.Token)
	}

	if resp.StatusCode >= 500 {
		select {
		case <-ctx.Done():
		case <-time.After(serverErrorDelay):
		}
		return nil, token.RedactErr(&codec.NetworkError{
			Err: fmt.Errorf("server error %d", resp.StatusCode),
		}, t.Token)
	}

	return respBody, nil
}

// isLocalHost reports whether host is the local Bot API server's usual
// loopback addresses (spec.md §4.2).
func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1"
}

// Download fetches a file referenced by its server-side path. If the
// transport's base URL points at localhost and the path is absolute, it
// is copied directly off the filesystem (local Bot API server mode,
// spec.md §4.2, scenario E6); otherwise it streams the HTTP response
// body into dst.
func (t *Transport) Download(ctx context.Context, filePath string, dst io.Writer) error {
	if u, err := url.Parse(t.BaseURL); err == nil && isLocalHost(u.Hostname()) && path.IsAbs(filePath) {
		return copyLocalFile(dst, filePath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.FileURL(filePath), nil)
	if err != nil {
		return token.RedactErr(&codec.DownloadError{Err: err}, t.Token)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return token.RedactErr(&codec.DownloadError{Err: err}, t.Token)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return token.RedactErr(&codec.DownloadError{
			Err: fmt.Errorf("download failed: status %d", resp.StatusCode),
		}, t.Token)
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return token.RedactErr(&codec.DownloadError{Err: err}, t.Token)
	}
	return nil
}

func copyLocalFile(dst io.Writer, path string) error {
	if err := codec.CopyLocalFile(dst, path); err != nil {
		return &codec.DownloadError{Err: &codec.IOError{Err: err}}
	}
	return nil
}
