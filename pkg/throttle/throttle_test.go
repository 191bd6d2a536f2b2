package throttle

import (
	"context"
	"sync"
	"testing"
	"time"

	"tgo/pkg/chatid"
	"tgo/pkg/codec"
	"tgo/pkg/payloads"
)

// countingRequester answers sendMessage calls immediately with a fixed
// body, recording every call it sees.
type countingRequester struct {
	mu    sync.Mutex
	calls []string
}

func (c *countingRequester) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, p.(payloads.ChatTargeted).TargetChat().String())
	return []byte(`{"ok":true,"result":true}`), nil
}

func (c *countingRequester) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func sendTo(ctx context.Context, th *Throttle, chat int64) error {
	_, err := th.Execute(ctx, &payloads.SendChatAction{ChatID: chatid.ByID(chatid.ChatID(chat)), Action: "typing"})
	return err
}

// TestAdmissionRateOverallAndPerChat exercises property 3: under an
// infinite submission stream, a contiguous 1-second window admits at
// most the overall and per-chat limits. Eight submissions against a
// limit of 5 admit exactly 5 before the 200ms context gives up on the rest.
func TestAdmissionRateOverallAndPerChat(t *testing.T) {
	inner := &countingRequester{}
	th := NewThrottle(inner, Limits{MessagesPerSecOverall: 5, MessagesPerSecPerChat: 5, MessagesPerMinPerGroup: 100})
	defer th.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sendTo(ctx, th, 1)
		}()
	}
	wg.Wait()

	if got := inner.count(); got != 5 {
		t.Fatalf("expected exactly 5 admissions (the overall limit) out of 8 submissions, got %d", got)
	}
}

// TestFIFOPerChat exercises property 4 for sequential submissions: ten
// sends to one chat, each issued after the previous returned, all reach
// the inner requester for that chat. The recorder keeps only the chat,
// so the order of the calls is not itself compared.
func TestFIFOPerChat(t *testing.T) {
	inner := &countingRequester{}
	th := NewThrottle(inner, Limits{MessagesPerSecOverall: 1000, MessagesPerSecPerChat: 1000, MessagesPerMinPerGroup: 1000})
	defer th.Stop()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if err := sendTo(ctx, th, 42); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	if len(inner.calls) != 10 {
		t.Fatalf("expected 10 calls, got %d", len(inner.calls))
	}
	for _, c := range inner.calls {
		if c != "42" {
			t.Fatalf("unexpected chat in FIFO sequence: %s", c)
		}
	}
}

// TestCancellationDoesNotConsumeSlot exercises property 5: submit N,
// drop k before admission, admit exactly N-k.
func TestCancellationDoesNotConsumeSlot(t *testing.T) {
	inner := &countingRequester{}
	// A tight per-second budget of 1 keeps most submissions pending so
	// their cancellation is observed before they'd ever be admitted.
	th := NewThrottle(inner, Limits{MessagesPerSecOverall: 1, MessagesPerSecPerChat: 1, MessagesPerMinPerGroup: 1000})
	defer th.Stop()

	admitted := make(chan struct{})
	go func() {
		sendTo(context.Background(), th, 7)
		close(admitted)
	}()
	<-admitted // first call occupies the only per-second slot this tick

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sendTo(ctx, th, 99) // distinct chat, but the overall budget is shared
		}()
	}
	time.Sleep(10 * time.Millisecond)
	cancel() // drop all 5 before the overall window frees up
	wg.Wait()

	if got := inner.count(); got != 1 {
		t.Fatalf("cancelled waiters must not be admitted, got %d total admissions", got)
	}
}

// TestFreezeAbsorbedAndRetried exercises property 6 / scenario E3: a
// RetryAfter response freezes the chat and the original call is retried
// transparently once the freeze expires.
func TestFreezeAbsorbedAndRetried(t *testing.T) {
	var mu sync.Mutex
	attempt := 0
	var firstAttemptAt, secondAttemptAt time.Time

	inner := requesterFunc(func(ctx context.Context, p payloads.Payload) ([]byte, error) {
		mu.Lock()
		attempt++
		n := attempt
		mu.Unlock()
		if n == 1 {
			firstAttemptAt = time.Now()
			return nil, &codec.RetryAfterError{Seconds: 0}
		}
		secondAttemptAt = time.Now()
		return []byte(`{"ok":true,"result":true}`), nil
	})

	th := NewThrottle(inner, DefaultLimits())
	defer th.Stop()

	// A zero-second RetryAfter still exercises freeze-then-retry without
	// slowing the test down.
	if err := sendTo(context.Background(), th, 55); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if attempt != 2 {
		t.Fatalf("expected exactly one retry after RetryAfter, got %d attempts", attempt)
	}
	if !secondAttemptAt.After(firstAttemptAt) && !secondAttemptAt.Equal(firstAttemptAt) {
		t.Fatalf("retry must happen after the original attempt")
	}
}

// TestReconfigureTakesEffect exercises reconfiguration: tightening the
// overall limit at runtime caps subsequent admissions.
func TestReconfigureTakesEffect(t *testing.T) {
	inner := &countingRequester{}
	th := NewThrottle(inner, Limits{MessagesPerSecOverall: 1000, MessagesPerSecPerChat: 1000, MessagesPerMinPerGroup: 1000})
	defer th.Stop()

	th.Reconfigure(Limits{MessagesPerSecOverall: 1, MessagesPerSecPerChat: 1, MessagesPerMinPerGroup: 1000})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	admittedBefore := 0
	var mu sync.Mutex
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := sendTo(ctx, th, int64(i)); err == nil {
				mu.Lock()
				admittedBefore++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if admittedBefore > 2 {
		t.Fatalf("reconfigured overall limit of 1/s should cap admissions within 30ms, got %d", admittedBefore)
	}
}

type requesterFunc func(ctx context.Context, p payloads.Payload) ([]byte, error)

func (f requesterFunc) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	return f(ctx, p)
}
