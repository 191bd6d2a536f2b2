package codec

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"tgo/pkg/payloads"
)

// EncodeMultipart walks p's file-reference tree (spec.md §4.1), attaches
// every locally-owned reference (FileRefBytes/FileRefPath) as its own
// form part named after a generated "attach://<name>" identity, and
// writes every remaining struct field as its own text form field
// (strings as plain text, other values as JSON) — one field per
// parameter (chat_id, caption, parse_mode, ...),
// mirroring FormBuilder::new().add("chat_id", ...).add(...) in
// original_source/src/core/requests/form_builder.rs.
// Real Bot API servers parse individually named form fields, not a
// single bundled JSON blob.
//
// The invariant this implements (property 2): the set of attach://
// names referenced by the serialized fields equals exactly the set of
// form parts this function attaches.
func EncodeMultipart(p payloads.MultipartPayload) (contentType string, body []byte, err error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for i, ref := range p.Files() {
		if !ref.RequiresMultipart() {
			continue
		}
		name := fmt.Sprintf("tgo_file_%d", i)
		ref.Attach(name)

		part, werr := w.CreateFormFile(name, attachFilename(*ref))
		if werr != nil {
			return "", nil, &IOError{Err: werr}
		}

		switch ref.Kind {
		case payloads.FileRefBytes:
			if _, werr := part.Write(ref.Bytes); werr != nil {
				return "", nil, &IOError{Err: werr}
			}
		case payloads.FileRefPath:
			if werr := CopyLocalFile(part, ref.Path); werr != nil {
				return "", nil, &IOError{Err: werr}
			}
		}
	}

	fields, ferr := formFields(p)
	if ferr != nil {
		return "", nil, &InvalidJSONError{Err: ferr}
	}
	for _, f := range fields {
		if werr := w.WriteField(f.name, f.value); werr != nil {
			return "", nil, &IOError{Err: werr}
		}
	}

	if cerr := w.Close(); cerr != nil {
		return "", nil, &IOError{Err: cerr}
	}

	return w.FormDataContentType(), buf.Bytes(), nil
}

func attachFilename(ref payloads.FileRef) string {
	switch ref.Kind {
	case payloads.FileRefBytes:
		if ref.Filename != "" {
			return ref.Filename
		}
		return ref.AttachName
	case payloads.FileRefPath:
		return filepath.Base(ref.Path)
	default:
		return ref.AttachName
	}
}

// formField is one multipart text part: a Bot API parameter name paired
// with its JSON-valued text representation.
type formField struct {
	name  string
	value string
}

// formFields serializes p field-by-field into individually named form
// parts: p is marshalled once (respecting its own json tags, omitempty
// and FileRef.MarshalJSON's attach:// rewriting), then re-expanded from
// the resulting top-level JSON object into one field per key. A string
// value is unquoted to its plain text (the form the server expects for
// chat_id, caption, parse_mode, ...); anything else (numbers, bools,
// nested arrays/objects such as a media list) is written as its raw
// JSON text, which is how Bot API expects structured form fields too.
func formFields(p payloads.MultipartPayload) ([]formField, error) {
	encoded, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	raw := map[string]jsoniter.RawMessage{}
	if err := json.Unmarshal(encoded, &raw); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]formField, 0, len(names))
	for _, name := range names {
		value := raw[name]
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			fields = append(fields, formField{name: name, value: s})
			continue
		}
		fields = append(fields, formField{name: name, value: string(value)})
	}
	return fields, nil
}

// CopyLocalFile streams the file at path into dst. Shared by
// EncodeMultipart (attaching a local outgoing file) and
// transport.Transport.Download (local Bot API server mode, spec.md
// §4.2 scenario E6), so both local-file-streaming paths stay in sync.
func CopyLocalFile(dst io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(dst, f)
	return err
}
