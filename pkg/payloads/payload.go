// Package payloads defines the Payload abstraction (spec.md §3/§4.1) and
// a representative set of Bot API methods. The full ~250-struct schema is
// explicitly out of scope (spec.md §1); these are the methods the rest of
// the framework (throttler, multipart codec, dispatcher examples) needs
// to exercise.
package payloads

import "tgo/pkg/chatid"

// Payload is a value object carrying every parameter for one Bot API
// method (spec.md §3). Output is the type the server returns for this
// method; it is carried as a type parameter on the generic Request, not
// on Payload itself, so that a single interface can describe both JSON
// and multipart payloads uniformly.
type Payload interface {
	// Method is the Bot API method name, e.g. "sendMessage".
	Method() string
}

// MultipartPayload is implemented by payloads that may embed local files.
// Files is called by the codec to discover every attachable FileRef in
// the payload tree; an empty or all-remote result means the payload can
// still be sent as JSON (spec.md §3 invariant).
type MultipartPayload interface {
	Payload
	// Files returns pointers to every FileRef in the payload tree, so the
	// codec can rewrite locally-owned refs in place once attached.
	Files() []*FileRef
}

// IsMultipart reports whether p must be sent as multipart/form-data:
// it implements MultipartPayload and at least one of its file references
// is locally owned (bytes or path).
func IsMultipart(p Payload) bool {
	mp, ok := p.(MultipartPayload)
	if !ok {
		return false
	}
	for _, f := range mp.Files() {
		if f.RequiresMultipart() {
			return true
		}
	}
	return false
}

// ChatTargeted is implemented by every payload that addresses a specific
// chat. The throttler (spec.md §4.5) only admits requests whose payload
// implements this interface; everything else (getMe, getUpdates, ...)
// bypasses throttling entirely.
type ChatTargeted interface {
	Payload
	TargetChat() chatid.Recipient
}
