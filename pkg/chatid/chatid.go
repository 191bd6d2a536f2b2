// Package chatid implements the ChatId/Recipient data model from spec.md
// §3, including the bit-range classification used throughout the
// throttler (§4.5) and the dispatcher's dialogue keying (§4.8).
package chatid

import (
	"strconv"
	"strings"
)

// Kind classifies a ChatID by the bit-range conventions in spec.md §3.
type Kind int

const (
	KindUser Kind = iota
	KindGroup
	KindChannel
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindGroup:
		return "group"
	case KindChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// Bit-range boundaries from spec.md §3:
//
//	channels: (-1997852516352, -1000000000000]
//	groups:   (-1000000000000, 0)
//	users:    [0, 2^40)
const (
	channelFloorExclusive = -1997852516352
	channelCeilInclusive  = -1000000000000
	groupCeilExclusive    = 0
)

// ChatID is the signed-integer chat identifier used by every Bot API
// method that targets a chat.
type ChatID int64

// Classify implements property 7: it returns which of the three chat
// kinds a raw numeric id belongs to.
func (c ChatID) Classify() Kind {
	switch {
	case int64(c) > channelFloorExclusive && int64(c) <= channelCeilInclusive:
		return KindChannel
	case int64(c) > channelCeilInclusive && int64(c) < groupCeilExclusive:
		return KindGroup
	default:
		return KindUser
	}
}

// IsPrivate reports whether c addresses a single user/PM chat — the only
// kind exempt from the per-chat-per-minute throttler limit (spec.md
// §4.5).
func (c ChatID) IsPrivate() bool {
	return c.Classify() == KindUser
}

// String renders the bare integer, matching how Telegram expects chat_id
// to be serialized in JSON bodies.
func (c ChatID) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// MarshalJSON renders the ChatID as a JSON number.
func (c ChatID) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a JSON string, since the
// Bot API's own responses sometimes quote large ids.
func (c *ChatID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*c = ChatID(v)
	return nil
}

// Recipient extends ChatID with the alternative "@channelusername" form
// some Bot API methods accept in place of a numeric id.
type Recipient struct {
	ID       ChatID
	Username string // set instead of ID when addressing by "@username"
}

// ByID builds a Recipient addressing a numeric chat id.
func ByID(id ChatID) Recipient {
	return Recipient{ID: id}
}

// ByUsername builds a Recipient addressing a public "@username" channel.
// The leading '@' is added if missing.
func ByUsername(username string) Recipient {
	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}
	return Recipient{Username: username}
}

// IsUsername reports whether this recipient addresses by username rather
// than numeric id.
func (r Recipient) IsUsername() bool {
	return r.Username != ""
}

// String renders the wire form of the recipient: the numeric id, or the
// "@username" string.
func (r Recipient) String() string {
	if r.IsUsername() {
		return r.Username
	}
	return r.ID.String()
}

// MarshalJSON renders either the numeric id or the quoted username,
// matching what the Bot API accepts for chat_id fields.
func (r Recipient) MarshalJSON() ([]byte, error) {
	if r.IsUsername() {
		return []byte(strconv.Quote(r.Username)), nil
	}
	return r.ID.MarshalJSON()
}

// Classify resolves the chat kind for this recipient. Usernames are
// always channels (Telegram only allows "@username" for public channels
// and supergroups acting as channels in this framework's throttler
// model); numeric ids defer to ChatID.Classify.
func (r Recipient) Classify() Kind {
	if r.IsUsername() {
		return KindChannel
	}
	return r.ID.Classify()
}
