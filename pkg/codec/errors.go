package codec

import (
	"fmt"
	"strings"
)

// ApiError enumerates the known Bot API rejection descriptions (spec.md
// §4.1, §7). Descriptions not present in the table decode to Unknown.
type ApiError struct {
	// Kind is empty for ApiErrorUnknown; otherwise one of the
	// ApiErrorXxx constants below.
	Kind        string
	Description string
	StatusCode  int
}

func (e *ApiError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tgo: api error %d: %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("tgo: api error: %s", e.Description)
}

// Known ApiError kinds (spec.md §4.1 "known-code table"). The table maps
// specific description substrings to these named errors; everything else
// becomes ApiErrorUnknown.
const (
	ApiErrorUnknown                  = ""
	ApiErrorTerminatedByOtherGetUpdates = "TerminatedByOtherGetUpdates"
	ApiErrorMessageNotModified        = "MessageNotModified"
	ApiErrorMessageIsTooLong          = "MessageIsTooLong"
	ApiErrorChatNotFound              = "ChatNotFound"
	ApiErrorUserNotFound               = "UserNotFound"
	ApiErrorBotBlocked                 = "BotBlocked"
	ApiErrorMessageToDeleteNotFound    = "MessageToDeleteNotFound"
	ApiErrorCantParseEntities          = "CantParseEntities"
)

// knownDescriptions maps a substring of the server's "description" field
// to the ApiError kind it denotes. The match is substring-based because
// Telegram's descriptions carry variable prefixes/suffixes (e.g. "Bad
// Request: " or trailing request-specific detail).
var knownDescriptions = []struct {
	substr string
	kind   string
}{
	{"terminated by other getUpdates", ApiErrorTerminatedByOtherGetUpdates},
	{"message is not modified", ApiErrorMessageNotModified},
	{"message is too long", ApiErrorMessageIsTooLong},
	{"chat not found", ApiErrorChatNotFound},
	{"user not found", ApiErrorUserNotFound},
	{"bot was blocked by the user", ApiErrorBotBlocked},
	{"message to delete not found", ApiErrorMessageToDeleteNotFound},
	{"can't parse entities", ApiErrorCantParseEntities},
}

func classifyDescription(desc string) string {
	lower := strings.ToLower(desc)
	for _, k := range knownDescriptions {
		if strings.Contains(lower, strings.ToLower(k.substr)) {
			return k.kind
		}
	}
	return ApiErrorUnknown
}

// RetryAfterError is the server-requested back-off (spec.md §7). The
// throttler absorbs it when a request came in through Throttle; it is
// surfaced verbatim otherwise.
type RetryAfterError struct {
	Seconds int
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("tgo: retry after %ds", e.Seconds)
}

// MigrateToChatIDError is the server migration hint (spec.md §7).
type MigrateToChatIDError struct {
	NewChatID int64
}

func (e *MigrateToChatIDError) Error() string {
	return fmt.Sprintf("tgo: migrate to chat id %d", e.NewChatID)
}

// NetworkError wraps a transport failure (spec.md §7). It is retriable
// at the caller's discretion; the transport never retries it silently.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "tgo: network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// InvalidJSONError means the server response failed to decode against
// the expected envelope/result shape.
type InvalidJSONError struct {
	Err error
}

func (e *InvalidJSONError) Error() string { return "tgo: invalid json: " + e.Err.Error() }
func (e *InvalidJSONError) Unwrap() error { return e.Err }

// IOError wraps a local filesystem failure during multipart upload or
// local file download.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return "tgo: io error: " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

// DownloadError is the superset of IOError + NetworkError used by the
// file downloader (spec.md §7).
type DownloadError struct {
	Err error
}

func (e *DownloadError) Error() string { return "tgo: download error: " + e.Err.Error() }
func (e *DownloadError) Unwrap() error { return e.Err }

