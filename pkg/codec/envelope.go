// Package codec implements the wire codec (spec.md §4.1 / component A):
// the {ok,result}/{ok,description,...} response envelope, the known-code
// ApiError table, JSON/multipart request encoding, and token redaction.
package codec

import (
	jsoniter "github.com/json-iterator/go"
)

// json is the drop-in encoding/json replacement used across this
// framework, matching the teacher's `var json =
// jsoniter.ConfigCompatibleWithStandardLibrary` convention (pkg/llm,
// pkg/config in the teacher repo).
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope mirrors the untagged {ok:true,result:R} / {ok:false,...}
// union from spec.md §4.1, decided by the "ok" discriminator.
type envelope struct {
	OK                 bool               `json:"ok"`
	Result             jsoniter.RawMessage `json:"result,omitempty"`
	Description        string             `json:"description,omitempty"`
	ErrorCode          int                `json:"error_code,omitempty"`
	ResponseParameters *responseParams    `json:"parameters,omitempty"`
}

type responseParams struct {
	RetryAfter      *int   `json:"retry_after,omitempty"`
	MigrateToChatID *int64 `json:"migrate_to_chat_id,omitempty"`
}

// Decode parses a raw Bot API HTTP response body into the result type R,
// implementing property 1 (envelope round-trip) and the RetryAfter /
// MigrateToChatId / ApiError error taxonomy from spec.md §7.
func Decode[R any](body []byte) (R, error) {
	var zero R

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, &InvalidJSONError{Err: err}
	}

	if env.OK {
		var out R
		if len(env.Result) > 0 {
			if err := json.Unmarshal(env.Result, &out); err != nil {
				return zero, &InvalidJSONError{Err: err}
			}
		}
		return out, nil
	}

	if p := env.ResponseParameters; p != nil {
		switch {
		case p.RetryAfter != nil:
			return zero, &RetryAfterError{Seconds: *p.RetryAfter}
		case p.MigrateToChatID != nil:
			return zero, &MigrateToChatIDError{NewChatID: *p.MigrateToChatID}
		}
	}

	return zero, &ApiError{
		Kind:        classifyDescription(env.Description),
		Description: env.Description,
		StatusCode:  env.ErrorCode,
	}
}

// EncodeJSON serializes a payload for the application/json request body.
func EncodeJSON(payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, &InvalidJSONError{Err: err}
	}
	return b, nil
}
