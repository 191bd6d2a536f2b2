// Package token holds the bot token and the redaction helper used to keep
// it out of logs and surfaced errors.
package token

import (
	"errors"
	"strings"
)

// ErrInvalidFormat is returned by Validate when a token is empty or
// contains no ':'.
var ErrInvalidFormat = errors.New("tgo: token must be non-empty and contain ':'")

// Token is a secret string identifying the bot. It is never logged directly
// — callers that need to put a token-bearing string in a log line must
// route it through Redact first.
type Token string

// Validate performs the light validation the spec calls for: non-empty and
// containing a ':' separating the bot id from the secret part.
func Validate(raw string) (Token, error) {
	if raw == "" || !strings.Contains(raw, ":") {
		return "", ErrInvalidFormat
	}
	return Token(raw), nil
}

const placeholder = "<redacted token>"

// Redact rewrites any occurrence of tok within s with a placeholder. It is
// applied to every transport error before it leaves the codec/transport
// layer (spec.md §4.1 "Token redaction").
func Redact(s string, tok Token) string {
	if tok == "" {
		return s
	}
	return strings.ReplaceAll(s, string(tok), placeholder)
}

// RedactErr wraps err so that its Error() string has the token redacted,
// while preserving errors.Is/As-ability via Unwrap.
func RedactErr(err error, tok Token) error {
	if err == nil || tok == "" {
		return err
	}
	return &redactedError{inner: err, tok: tok}
}

type redactedError struct {
	inner error
	tok   Token
}

func (e *redactedError) Error() string {
	return Redact(e.inner.Error(), e.tok)
}

func (e *redactedError) Unwrap() error {
	return e.inner
}
