// Command echobot wires every layer of the framework together into a
// single runnable bot, grounded on the teacher's root main.go: load
// config, watch it for changes, build the stack, run until shutdown or
// reload, loop.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tgo/pkg/adaptors"
	"tgo/pkg/bot"
	"tgo/pkg/chatid"
	"tgo/pkg/config"
	"tgo/pkg/dispatching"
	"tgo/pkg/listeners"
	"tgo/pkg/logging"
	"tgo/pkg/payloads"
	"tgo/pkg/requests"
	"tgo/pkg/throttle"
	"tgo/pkg/types"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(slog.New(logging.New(os.Stderr, slog.LevelInfo)))

	reloadCh := config.WatchConfig(ctx, "config.json")

	for {
		err := run(ctx, reloadCh)
		if err != nil {
			slog.Error("bot stopped with an error", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-reloadCh:
				slog.Info("configuration changed while waiting, retrying immediately")
			case <-time.After(5 * time.Second):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		default:
			slog.Info("configuration reloaded, restarting")
		}
	}
}

// run builds one full lifecycle of the bot and blocks until ctx is
// cancelled or a reload fires, then stops everything and returns.
func run(ctx context.Context, reloadCh <-chan struct{}) error {
	cfg, err := config.Load("config.json")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(logging.New(os.Stderr, logging.ParseLevel("info")))
	slog.SetDefault(logger)

	base, err := bot.New(ctx, cfg.Token, cfg.APIBaseURL, cfg.Proxy)
	if err != nil {
		return fmt.Errorf("build bot: %w", err)
	}

	th := throttle.NewThrottle(base, cfg.Limits)
	defer th.Stop()

	stack := adaptors.NewDefaultParseMode(th, cfg.ParseMode)
	cached := adaptors.NewCacheMe(stack)
	traced := adaptors.NewTrace(cached, logger, adaptors.TraceRequests)
	requester := adaptors.Erase(traced)

	root := dispatching.FilterMessage().Then(dispatching.Endpoint(echo))

	d := dispatching.New(root)
	d.Dependency(requester)
	d.SetErrorHandler(func(err error) {
		slog.Error("handler error", "error", err)
	})

	var listener listeners.Listener
	if cfg.Webhook.Enabled() {
		listener = listeners.NewWebhook(cfg.Webhook.ToListenerConfig())
	} else {
		// Throttle must never wrap getUpdates (spec.md §9), so long
		// polling talks to the untouched Bot handle directly.
		listener = listeners.NewLongPoll(base, d.AllowedUpdates())
	}

	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go func() {
		select {
		case <-ctx.Done():
			listener.StopToken().Stop()
		case <-reloadCh:
			listener.StopToken().Stop()
		case <-stopWatch:
		}
	}()

	// d.Run drains listener.Updates() until the listener finishes its
	// own graceful shutdown and closes the channel; it does not take
	// ctx itself, so a cancelled ctx never truncates an in-flight drain
	// out from under the listener's own close-after-drain guarantee.
	d.Run(context.Background(), listener.Updates())
	return nil
}

// echo implements the example bot's one behavior: reply with the
// incoming message's own text (scenario E1).
func echo(m types.Message, rq requests.Requester) error {
	_, err := bot.SendMessage(rq, &payloads.SendMessage{
		ChatID: chatid.ByID(m.Chat.ID),
		Text:   m.Text,
	}).Send(context.Background())
	return err
}
