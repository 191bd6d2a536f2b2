// Package types holds the minimal set of Bot API wire DTOs this framework
// exercises directly. The full ~250-struct schema is out of scope
// (spec.md §1); these are the types the core subsystems (codec, payloads,
// dispatcher, dialogue) need to compile and to demonstrate against.
package types

import "tgo/pkg/chatid"

// ParseMode is the Bot API text-formatting mode, injected by the
// DefaultParseMode adaptor (spec.md §4.4) whenever a payload's ParseMode
// field is unset.
type ParseMode string

const (
	ParseModeNone       ParseMode = ""
	ParseModeMarkdown   ParseMode = "Markdown"
	ParseModeMarkdownV2 ParseMode = "MarkdownV2"
	ParseModeHTML       ParseMode = "HTML"
)

// User is the subset of the Bot API User object this framework needs —
// notably the result of getMe, cached by the CacheMe adaptor.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat is the subset of the Bot API Chat object needed to route updates
// to their ChatID.
type Chat struct {
	ID   chatid.ChatID `json:"id"`
	Type string        `json:"type"`
}

// Message is the subset of the Bot API Message object exercised by the
// example handlers and by dialogue state that embeds full messages.
type Message struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

// CallbackQuery is the subset needed by filter_map-style projectors.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// Poll / PollAnswer — minimal stand-ins so the Update sum type and the
// dispatcher's update-kind projectors have every variant spec.md §3 names.
type Poll struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type PollAnswer struct {
	PollID string `json:"poll_id"`
	User   User   `json:"user"`
}

type InlineQuery struct {
	ID    string `json:"id"`
	From  User   `json:"from"`
	Query string `json:"query"`
}

type ChatMemberUpdated struct {
	Chat Chat `json:"chat"`
	From User `json:"from"`
}

type ChatJoinRequest struct {
	Chat Chat `json:"chat"`
	From User `json:"from"`
}

// Update is the sum type of every incoming event, tagged by which field
// is non-nil — mirroring teloxide's Update enum (spec.md §3). Only one
// field is populated per update.
type Update struct {
	UpdateID int64 `json:"update_id"`

	Message            *Message           `json:"message,omitempty"`
	EditedMessage      *Message           `json:"edited_message,omitempty"`
	ChannelPost        *Message           `json:"channel_post,omitempty"`
	EditedChannelPost  *Message           `json:"edited_channel_post,omitempty"`
	CallbackQuery      *CallbackQuery     `json:"callback_query,omitempty"`
	InlineQuery        *InlineQuery       `json:"inline_query,omitempty"`
	Poll               *Poll              `json:"poll,omitempty"`
	PollAnswer         *PollAnswer        `json:"poll_answer,omitempty"`
	MyChatMember       *ChatMemberUpdated `json:"my_chat_member,omitempty"`
	ChatMember         *ChatMemberUpdated `json:"chat_member,omitempty"`
	ChatJoinRequest    *ChatJoinRequest   `json:"chat_join_request,omitempty"`
}

// Kind identifies which variant of Update is populated — used to build
// allowed_updates (spec.md §4.7) and by the dispatcher's update-kind
// projectors.
type Kind string

const (
	KindMessage           Kind = "message"
	KindEditedMessage     Kind = "edited_message"
	KindChannelPost       Kind = "channel_post"
	KindEditedChannelPost Kind = "edited_channel_post"
	KindCallbackQuery     Kind = "callback_query"
	KindInlineQuery       Kind = "inline_query"
	KindPoll              Kind = "poll"
	KindPollAnswer        Kind = "poll_answer"
	KindMyChatMember      Kind = "my_chat_member"
	KindChatMember        Kind = "chat_member"
	KindChatJoinRequest   Kind = "chat_join_request"
)

// AllKinds lists every update kind, used as the long-poll listener's
// fallback allowed_updates set (spec.md §9, open question) and by tests.
var AllKinds = []Kind{
	KindMessage, KindEditedMessage, KindChannelPost, KindEditedChannelPost,
	KindCallbackQuery, KindInlineQuery, KindPoll, KindPollAnswer,
	KindMyChatMember, KindChatMember, KindChatJoinRequest,
}

// Kind reports which single variant of u is populated. It returns ""
// for a zero-value Update (shouldn't happen on the wire).
func (u Update) Kind() Kind {
	switch {
	case u.Message != nil:
		return KindMessage
	case u.EditedMessage != nil:
		return KindEditedMessage
	case u.ChannelPost != nil:
		return KindChannelPost
	case u.EditedChannelPost != nil:
		return KindEditedChannelPost
	case u.CallbackQuery != nil:
		return KindCallbackQuery
	case u.InlineQuery != nil:
		return KindInlineQuery
	case u.Poll != nil:
		return KindPoll
	case u.PollAnswer != nil:
		return KindPollAnswer
	case u.MyChatMember != nil:
		return KindMyChatMember
	case u.ChatMember != nil:
		return KindChatMember
	case u.ChatJoinRequest != nil:
		return KindChatJoinRequest
	default:
		return ""
	}
}

// ChatID returns the chat this update pertains to, and whether one could
// be determined. Used by the dispatcher to key per-chat dialogue
// mailboxes (spec.md §4.8).
func (u Update) ChatID() (chatid.ChatID, bool) {
	switch {
	case u.Message != nil:
		return u.Message.Chat.ID, true
	case u.EditedMessage != nil:
		return u.EditedMessage.Chat.ID, true
	case u.ChannelPost != nil:
		return u.ChannelPost.Chat.ID, true
	case u.EditedChannelPost != nil:
		return u.EditedChannelPost.Chat.ID, true
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		return u.CallbackQuery.Message.Chat.ID, true
	case u.MyChatMember != nil:
		return u.MyChatMember.Chat.ID, true
	case u.ChatMember != nil:
		return u.ChatMember.Chat.ID, true
	case u.ChatJoinRequest != nil:
		return u.ChatJoinRequest.Chat.ID, true
	default:
		return 0, false
	}
}

// ResponseParameters carries the extra migration/back-off hints the Bot
// API attaches to some error responses (spec.md §4.1).
type ResponseParameters struct {
	RetryAfter       *int   `json:"retry_after,omitempty"`
	MigrateToChatID  *int64 `json:"migrate_to_chat_id,omitempty"`
}
