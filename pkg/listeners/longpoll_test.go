package listeners

import (
	"context"
	"sync"
	"testing"
	"time"

	"tgo/pkg/payloads"
)

type fakeGetUpdates struct {
	mu       sync.Mutex
	calls    []*payloads.GetUpdates
	pages    [][]byte
	retryAt  int // call index (0-based) that returns a RetryAfter response; -1 for none

	// beforeReturn, if set, runs synchronously just before Execute hands
	// its scripted response back to the caller — letting a test fire the
	// stop token the instant after a batch is "fetched from the server"
	// but before run()'s delivery loop has sent any of it to the channel.
	beforeReturn func(idx int)
}

func (f *fakeGetUpdates) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	gu, ok := p.(*payloads.GetUpdates)
	if !ok {
		return []byte(`{"ok":true,"result":true}`), nil
	}
	f.mu.Lock()
	idx := len(f.calls)
	f.calls = append(f.calls, gu)
	f.mu.Unlock()

	if f.beforeReturn != nil {
		f.beforeReturn(idx)
	}

	if idx == f.retryAt {
		return []byte(`{"ok":false,"description":"Too Many Requests: retry later","error_code":429,"parameters":{"retry_after":0}}`), nil
	}
	if idx < len(f.pages) {
		return f.pages[idx], nil
	}
	// Beyond the scripted pages, block forever (simulates a live long
	// poll with nothing new) until the test stops the listener.
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLongPollOffsetAdvancesPastHighestID(t *testing.T) {
	fake := &fakeGetUpdates{
		retryAt: -1,
		pages: [][]byte{
			[]byte(`{"ok":true,"result":[{"update_id":10},{"update_id":11},{"update_id":13}]}`),
		},
	}

	lp := NewLongPoll(fake, nil)

	var got []int64
	for i := 0; i < 3; i++ {
		r := <-lp.Updates()
		if r.Err != nil {
			t.Fatalf("unexpected listener error: %v", r.Err)
		}
		got = append(got, r.Update.UpdateID)
	}
	if len(got) != 3 || got[0] != 10 || got[1] != 11 || got[2] != 13 {
		t.Fatalf("unexpected update sequence: %v", got)
	}

	lp.StopToken().Stop()
	time.Sleep(20 * time.Millisecond)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.calls) < 2 {
		t.Fatalf("expected a follow-up getUpdates call, got %d calls", len(fake.calls))
	}
	// Property 8: after {10, 11, 13}, the next call must use offset 14.
	if fake.calls[1].Offset != 14 {
		t.Fatalf("expected next offset 14, got %d", fake.calls[1].Offset)
	}
}

func TestLongPollDrainsFetchedBatchEvenWhenStoppedMidBatch(t *testing.T) {
	var lp *LongPoll
	fake := &fakeGetUpdates{
		retryAt: -1,
		pages: [][]byte{
			[]byte(`{"ok":true,"result":[{"update_id":1},{"update_id":2},{"update_id":3}]}`),
		},
	}
	// Fire the stop token the instant the batch has been "fetched from
	// the server" (Execute is about to return it) but before run()'s
	// delivery loop has sent a single item to the channel. A buggy
	// implementation that races each send against stopTok.Done() can
	// drop the whole batch here; draining unconditionally must not.
	fake.beforeReturn = func(idx int) {
		if idx == 0 {
			lp.StopToken().Stop()
		}
	}

	lp = NewLongPoll(fake, nil)

	var got []int64
	for r := range lp.Updates() {
		if r.Err != nil {
			t.Fatalf("unexpected listener error: %v", r.Err)
		}
		got = append(got, r.Update.UpdateID)
	}

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected the full fetched batch {1,2,3} to drain before close, got %v", got)
	}
}

func TestLongPollAbsorbsRetryAfter(t *testing.T) {
	fake := &fakeGetUpdates{
		retryAt: 0,
		pages: [][]byte{
			nil, // index 0 is intercepted by retryAt above
			[]byte(`{"ok":true,"result":[{"update_id":1}]}`),
		},
	}

	lp := NewLongPoll(fake, []string{"message"})
	defer lp.StopToken().Stop()

	r := <-lp.Updates()
	if r.Err != nil {
		t.Fatalf("RetryAfter must be absorbed internally, got error: %v", r.Err)
	}
	if r.Update.UpdateID != 1 {
		t.Fatalf("expected update_id 1 after the absorbed retry, got %d", r.Update.UpdateID)
	}
}
