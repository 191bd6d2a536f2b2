package adaptors

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"tgo/pkg/chatid"
	"tgo/pkg/payloads"
	"tgo/pkg/types"
)

var errBoom = errors.New("boom")

type fakeRequester struct {
	calls int
	body  []byte
	err   error
	last  payloads.Payload
}

func (f *fakeRequester) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	f.calls++
	f.last = p
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func TestCacheMeCallsOnceAndReusesResult(t *testing.T) {
	fr := &fakeRequester{body: []byte(`{"ok":true,"result":{"id":1,"is_bot":true}}`)}
	c := NewCacheMe(fr)

	for i := 0; i < 5; i++ {
		if _, err := c.Execute(context.Background(), &payloads.GetMe{}); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	if fr.calls != 1 {
		t.Fatalf("expected exactly 1 underlying getMe call, got %d", fr.calls)
	}
}

func TestCacheMeRetriesAfterFailure(t *testing.T) {
	fr := &fakeRequester{err: errBoom}
	c := NewCacheMe(fr)

	if _, err := c.Execute(context.Background(), &payloads.GetMe{}); err == nil {
		t.Fatalf("expected the first call's error to surface")
	}
	if _, err := c.Execute(context.Background(), &payloads.GetMe{}); err == nil {
		t.Fatalf("expected a retried call to still surface the error")
	}
	if fr.calls != 2 {
		t.Fatalf("expected a failed getMe to be retried, not cached forever, got %d calls", fr.calls)
	}

	fr.err = nil
	fr.body = []byte(`{"ok":true,"result":{"id":1,"is_bot":true}}`)
	if _, err := c.Execute(context.Background(), &payloads.GetMe{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := c.Execute(context.Background(), &payloads.GetMe{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if fr.calls != 3 {
		t.Fatalf("expected the first success to be cached, got %d calls", fr.calls)
	}
}

func TestCacheMePassesThroughOtherPayloads(t *testing.T) {
	fr := &fakeRequester{body: []byte(`{"ok":true,"result":true}`)}
	c := NewCacheMe(fr)

	for i := 0; i < 3; i++ {
		if _, err := c.Execute(context.Background(), &payloads.SendChatAction{ChatID: chatid.ByID(1), Action: "typing"}); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	if fr.calls != 3 {
		t.Fatalf("non-getMe payloads must not be memoized, got %d calls", fr.calls)
	}
}

func TestDefaultParseModeFillsUnsetField(t *testing.T) {
	fr := &fakeRequester{body: []byte(`{"ok":true,"result":true}`)}
	d := NewDefaultParseMode(fr, types.ParseModeMarkdownV2)

	p := &payloads.SendMessage{ChatID: chatid.ByID(1), Text: "hi"}
	if _, err := d.Execute(context.Background(), p); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if p.ParseMode != string(types.ParseModeMarkdownV2) {
		t.Fatalf("expected parse_mode to be filled, got %q", p.ParseMode)
	}
}

func TestDefaultParseModeDoesNotOverrideExplicitChoice(t *testing.T) {
	fr := &fakeRequester{body: []byte(`{"ok":true,"result":true}`)}
	d := NewDefaultParseMode(fr, types.ParseModeMarkdownV2)

	p := &payloads.SendMessage{ChatID: chatid.ByID(1), Text: "hi", ParseMode: string(types.ParseModeHTML)}
	if _, err := d.Execute(context.Background(), p); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if p.ParseMode != string(types.ParseModeHTML) {
		t.Fatalf("expected explicit parse_mode to survive, got %q", p.ParseMode)
	}
}

func TestTraceForwardsResultUnchanged(t *testing.T) {
	fr := &fakeRequester{body: []byte(`{"ok":true,"result":true}`)}
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	tr := NewTrace(fr, log, TraceEverythingVerbose)

	raw, err := tr.Execute(context.Background(), &payloads.SendChatAction{ChatID: chatid.ByID(1), Action: "typing"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(raw) != string(fr.body) {
		t.Fatalf("Trace must forward the inner result unchanged, got %s", raw)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected verbose tracing to log something")
	}
}

func TestErasedRequesterForwards(t *testing.T) {
	fr := &fakeRequester{body: []byte(`{"ok":true,"result":true}`)}
	e := Erase(fr)
	if _, err := e.Execute(context.Background(), &payloads.GetMe{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if fr.calls != 1 {
		t.Fatalf("expected erased requester to forward the call")
	}
}
