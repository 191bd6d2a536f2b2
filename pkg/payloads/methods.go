package payloads

import "tgo/pkg/chatid"

// All payload types below are designed to be used by pointer (*T
// implements Payload / ChatTargeted / MultipartPayload), so that the
// multipart codec can rewrite a locally-owned FileRef's attach name in
// place during encoding. Request[P, R] (pkg/requests) is parameterized
// on these pointer types; callers build a payload value and pass &v.

// GetMe requests the bot's own User object. Cached by the CacheMe
// adaptor (spec.md §4.4).
type GetMe struct{}

func (*GetMe) Method() string { return "getMe" }

// GetUpdates is the long-poll payload (spec.md §4.6).
type GetUpdates struct {
	Offset         int64    `json:"offset,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

func (*GetUpdates) Method() string { return "getUpdates" }

// SendMessage is the canonical message-sending method; every throttler
// test and the E1/E2/E3 scenarios exercise it.
type SendMessage struct {
	ChatID    chatid.Recipient `json:"chat_id"`
	Text      string           `json:"text"`
	ParseMode string           `json:"parse_mode,omitempty"`
}

func (*SendMessage) Method() string { return "sendMessage" }

func (s *SendMessage) TargetChat() chatid.Recipient { return s.ChatID }

// ParseModeField lets DefaultParseMode (spec.md §4.4) find and set the
// "parse_mode" field on any payload that has one, without needing
// reflection over every concrete payload type.
type ParseModeField interface {
	Payload
	ParseModeIsSet() bool
	SetParseMode(mode string)
}

func (s *SendMessage) ParseModeIsSet() bool     { return s.ParseMode != "" }
func (s *SendMessage) SetParseMode(mode string) { s.ParseMode = mode }

// SendPhoto is a multipart-capable method: Photo may be a locally-owned
// file, forcing multipart encoding (spec.md §3 invariant, property 2).
type SendPhoto struct {
	ChatID    chatid.Recipient `json:"chat_id"`
	Photo     FileRef          `json:"photo"`
	Caption   string           `json:"caption,omitempty"`
	ParseMode string           `json:"parse_mode,omitempty"`
}

func (*SendPhoto) Method() string { return "sendPhoto" }

func (s *SendPhoto) TargetChat() chatid.Recipient { return s.ChatID }

func (s *SendPhoto) Files() []*FileRef { return []*FileRef{&s.Photo} }

func (s *SendPhoto) ParseModeIsSet() bool     { return s.ParseMode != "" }
func (s *SendPhoto) SetParseMode(mode string) { s.ParseMode = mode }

// InputMediaPhoto is one element of a SendMediaGroup's Media list — it
// demonstrates the "nested media list referencing attached parts via
// attach:// names" case from spec.md §4.1.
type InputMediaPhoto struct {
	Type    string  `json:"type"`
	Media   FileRef `json:"media"`
	Caption string  `json:"caption,omitempty"`
}

// SendMediaGroup sends an album; its Media files are collected from
// nested InputMediaPhoto entries (spec.md §4.1 "Nested media lists").
type SendMediaGroup struct {
	ChatID chatid.Recipient  `json:"chat_id"`
	Media  []InputMediaPhoto `json:"media"`
}

func (*SendMediaGroup) Method() string { return "sendMediaGroup" }

func (s *SendMediaGroup) TargetChat() chatid.Recipient { return s.ChatID }

func (s *SendMediaGroup) Files() []*FileRef {
	refs := make([]*FileRef, 0, len(s.Media))
	for i := range s.Media {
		refs = append(refs, &s.Media[i].Media)
	}
	return refs
}

// SendChatAction demonstrates a further chat-targeted, non-message method
// that still counts toward per-chat limits when it produces outbound
// traffic to a chat.
type SendChatAction struct {
	ChatID chatid.Recipient `json:"chat_id"`
	Action string           `json:"action"`
}

func (*SendChatAction) Method() string { return "sendChatAction" }

func (s *SendChatAction) TargetChat() chatid.Recipient { return s.ChatID }

// GetFile resolves a server file id to a downloadable path (spec.md
// §4.2).
type GetFile struct {
	FileID string `json:"file_id"`
}

func (*GetFile) Method() string { return "getFile" }

// SetWebhook registers the webhook URL with the server (spec.md §4.6).
type SetWebhook struct {
	URL         string `json:"url"`
	SecretToken string `json:"secret_token,omitempty"`
}

func (*SetWebhook) Method() string { return "setWebhook" }
