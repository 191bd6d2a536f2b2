// Package bot implements the Bot handle: the concrete, base Requester
// that owns the token, the HTTP transport and the typed call helpers for
// every payload this framework knows about (spec.md §3 "Bot-handle is
// clone-cheap shared ownership").
package bot

import (
	"context"
	"io"
	"time"

	"tgo/pkg/codec"
	"tgo/pkg/payloads"
	"tgo/pkg/requests"
	"tgo/pkg/token"
	"tgo/pkg/transport"
	"tgo/pkg/types"
)

// DefaultLongPollTimeout and the safety margin implement spec.md §5
// "Timeouts": the HTTP client's own timeout must exceed the long-poll
// timeout, default 17s total for a 10s long-poll.
const (
	DefaultLongPollTimeout = 10 * time.Second
	longPollSafetyMargin   = 7 * time.Second
	defaultClientTimeout   = 30 * time.Second
)

// Bot is the base requester: HTTP client + token + API base URL, shared
// immutably across every adaptor layered on top of it (spec.md §5
// "Shared resources").
type Bot struct {
	transport *transport.Transport
}

// New validates rawToken and builds a Bot talking to apiBaseURL (default
// https://api.telegram.org if empty) through proxyURL (no proxy if
// empty).
func New(ctx context.Context, rawToken, apiBaseURL, proxyURL string) (*Bot, error) {
	tok, err := token.Validate(rawToken)
	if err != nil {
		return nil, err
	}
	tr := transport.New(ctx, tok, apiBaseURL, proxyURL, defaultClientTimeout)
	return &Bot{transport: tr}, nil
}

// Token returns the bot's token. Never log this value directly — route
// it through pkg/token.Redact first.
func (b *Bot) Token() token.Token { return b.transport.Token }

// Execute implements requests.Requester: it encodes p as JSON or
// multipart/form-data depending on whether it carries any locally-owned
// file reference (spec.md §3 invariant), and returns the raw response
// body for codec.Decode to interpret.
func (b *Bot) Execute(ctx context.Context, p payloads.Payload) ([]byte, error) {
	var (
		contentType string
		body        []byte
		err         error
	)

	if mp, ok := p.(payloads.MultipartPayload); ok && payloads.IsMultipart(p) {
		contentType, body, err = codec.EncodeMultipart(mp)
	} else {
		contentType = "application/json"
		body, err = codec.EncodeJSON(p)
	}
	if err != nil {
		return nil, err
	}

	return b.transport.Call(ctx, p.Method(), contentType, body)
}

// DownloadFile streams a server-side file path into dst (spec.md §4.2).
func (b *Bot) DownloadFile(ctx context.Context, filePath string, dst io.Writer) error {
	return b.transport.Download(ctx, filePath, dst)
}

// GetMe requests the bot's own identity.
func GetMe(bot requests.Requester) requests.Request[*payloads.GetMe, types.User] {
	return requests.New[*payloads.GetMe, types.User](bot, &payloads.GetMe{})
}

// GetUpdates issues a long-poll call for new updates.
func GetUpdates(bot requests.Requester, p *payloads.GetUpdates) requests.Request[*payloads.GetUpdates, []types.Update] {
	return requests.New[*payloads.GetUpdates, []types.Update](bot, p)
}

// SendMessage sends a text message.
func SendMessage(bot requests.Requester, p *payloads.SendMessage) requests.Request[*payloads.SendMessage, types.Message] {
	return requests.New[*payloads.SendMessage, types.Message](bot, p)
}

// SendPhoto sends a photo, possibly uploading a local file or in-memory
// bytes as multipart/form-data.
func SendPhoto(bot requests.Requester, p *payloads.SendPhoto) requests.Request[*payloads.SendPhoto, types.Message] {
	return requests.New[*payloads.SendPhoto, types.Message](bot, p)
}

// SendMediaGroup sends an album of photos.
func SendMediaGroup(bot requests.Requester, p *payloads.SendMediaGroup) requests.Request[*payloads.SendMediaGroup, []types.Message] {
	return requests.New[*payloads.SendMediaGroup, []types.Message](bot, p)
}

// SendChatAction sends a transient status like "typing".
func SendChatAction(bot requests.Requester, p *payloads.SendChatAction) requests.Request[*payloads.SendChatAction, bool] {
	return requests.New[*payloads.SendChatAction, bool](bot, p)
}

// File is the result of GetFile: a server file id and its downloadable
// path.
type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
}

// GetFile resolves a server file id to its downloadable path.
func GetFile(bot requests.Requester, p *payloads.GetFile) requests.Request[*payloads.GetFile, File] {
	return requests.New[*payloads.GetFile, File](bot, p)
}

// SetWebhook registers the webhook URL with the server.
func SetWebhook(bot requests.Requester, p *payloads.SetWebhook) requests.Request[*payloads.SetWebhook, bool] {
	return requests.New[*payloads.SetWebhook, bool](bot, p)
}
