package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewWiresProxyURLIntoTransport(t *testing.T) {
	tr := New(context.Background(), "123:ABC", "https://api.telegram.org", "http://proxy.example:8080", 5*time.Second)

	httpTransport, ok := tr.Client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", tr.Client.Transport)
	}
	if httpTransport.Proxy == nil {
		t.Fatalf("expected Proxy to be set when proxyURL is non-empty")
	}

	req, _ := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	got, err := httpTransport.Proxy(req)
	if err != nil {
		t.Fatalf("unexpected error resolving proxy: %v", err)
	}
	if got == nil || got.Host != "proxy.example:8080" {
		t.Fatalf("unexpected proxy URL: %v", got)
	}
}

func TestNewLeavesProxyUnsetWhenEmpty(t *testing.T) {
	tr := New(context.Background(), "123:ABC", "https://api.telegram.org", "", 5*time.Second)

	httpTransport, ok := tr.Client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", tr.Client.Transport)
	}
	if httpTransport.Proxy != nil {
		t.Fatalf("expected Proxy to stay nil when proxyURL is empty")
	}
}

func TestMethodAndFileURL(t *testing.T) {
	tr := &Transport{Token: "123:ABC", BaseURL: "https://api.telegram.org"}
	if got, want := tr.MethodURL("sendMessage"), "https://api.telegram.org/bot123:ABC/sendMessage"; got != want {
		t.Fatalf("MethodURL = %q, want %q", got, want)
	}
	if got, want := tr.FileURL("docs/file.pdf"), "https://api.telegram.org/file/bot123:ABC/docs/file.pdf"; got != want {
		t.Fatalf("FileURL = %q, want %q", got, want)
	}
}

func TestCallPostsJSONBody(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = readAll(r)
		w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer srv.Close()

	tr := New(context.Background(), "123:ABC", srv.URL, "", 5*time.Second)
	body, err := tr.Call(context.Background(), "sendMessage", "application/json", []byte(`{"chat_id":1,"text":"hi"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), `"ok":true`) {
		t.Fatalf("unexpected response body: %s", body)
	}
	if !strings.HasSuffix(gotMethod, "/sendMessage") {
		t.Fatalf("unexpected request path: %s", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type: %s", gotContentType)
	}
	if string(gotBody) != `{"chat_id":1,"text":"hi"}` {
		t.Fatalf("unexpected request body: %s", gotBody)
	}
}

func TestCallRedactsTokenOnNetworkError(t *testing.T) {
	tr := New(context.Background(), "123:SECRET", "http://127.0.0.1:1", "", time.Second)
	_, err := tr.Call(context.Background(), "sendMessage", "application/json", []byte(`{}`))
	if err == nil {
		t.Fatalf("expected an error dialing a closed port")
	}
	if strings.Contains(err.Error(), "123:SECRET") {
		t.Fatalf("token leaked into error: %v", err)
	}
}

func TestDownloadLocalhostShortcut(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file.bin")
	if err := os.WriteFile(filePath, []byte("hello"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// No HTTP server is started — a request would fail to connect. This
	// proves the localhost shortcut never issues an HTTP call (scenario
	// E6).
	tr := &Transport{Token: "123:ABC", BaseURL: "http://127.0.0.1:8081", Client: http.DefaultClient}

	var buf bytes.Buffer
	if err := tr.Download(context.Background(), filePath, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "hello" {
		t.Fatalf("unexpected contents: %q", buf.String())
	}
}

func readAll(r *http.Request) ([]byte, error) {
	return io.ReadAll(r.Body)
}
