package payloads

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileRefKind tags which variant of the file-reference union (spec.md
// §3 "File reference") a FileRef holds.
type FileRefKind int

const (
	// FileRefID is an opaque server-assigned file id — no upload needed.
	FileRefID FileRefKind = iota
	// FileRefURL is an HTTPS URL Telegram fetches itself — no upload needed.
	FileRefURL
	// FileRefBytes is in-memory content that must be attached as a
	// multipart part.
	FileRefBytes
	// FileRefPath is a local filesystem path that must be attached as a
	// multipart part.
	FileRefPath
	// FileRefAttach is an "attach://<name>" back-reference used inside
	// nested media lists (InputMedia, stickers, ...).
	FileRefAttach
)

// FileRef is the tagged union described in spec.md §3. Only FileRefBytes
// and FileRefPath force a payload to be sent as multipart/form-data; the
// invariant is enforced by RequiresMultipart below, not by callers.
type FileRef struct {
	Kind FileRefKind

	ID       string // FileRefID
	URL      string // FileRefURL
	Bytes    []byte // FileRefBytes
	Filename string // FileRefBytes
	Path     string // FileRefPath
	AttachName string // FileRefAttach / assigned when this ref is attached
}

// FileFromID wraps an opaque server file id.
func FileFromID(id string) FileRef { return FileRef{Kind: FileRefID, ID: id} }

// FileFromURL wraps an HTTPS URL Telegram should fetch directly.
func FileFromURL(url string) FileRef { return FileRef{Kind: FileRefURL, URL: url} }

// FileFromBytes wraps in-memory content with a filename.
func FileFromBytes(filename string, data []byte) FileRef {
	return FileRef{Kind: FileRefBytes, Filename: filename, Bytes: data}
}

// FileFromPath wraps a local filesystem path.
func FileFromPath(path string) FileRef { return FileRef{Kind: FileRefPath, Path: path} }

// RequiresMultipart reports whether this single file reference forces its
// containing payload to be sent as multipart/form-data (spec.md §3
// invariant: only (c) bytes and (d) path force multipart).
func (f FileRef) RequiresMultipart() bool {
	return f.Kind == FileRefBytes || f.Kind == FileRefPath
}

// MarshalJSON renders the reference the way Telegram expects it inside a
// JSON field: the raw id/URL string, or "attach://<name>" once this ref
// has been assigned to an attached multipart part.
func (f FileRef) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FileRefID:
		return quoteJSON(f.ID), nil
	case FileRefURL:
		return quoteJSON(f.URL), nil
	case FileRefAttach:
		return quoteJSON("attach://" + f.AttachName), nil
	case FileRefBytes, FileRefPath:
		// Encoding time: by now codec.EncodeMultipart must have already
		// assigned this ref its AttachName via Attach(name).
		return quoteJSON("attach://" + f.AttachName), nil
	default:
		return quoteJSON(""), nil
	}
}

// Attach assigns this locally-owned file reference its generated
// "attach://<name>" identity, turning it into what MarshalJSON renders.
// It returns the attachment name for the multipart writer to use as the
// form part's field name.
func (f *FileRef) Attach(name string) string {
	f.AttachName = name
	return name
}

func quoteJSON(s string) []byte {
	b, _ := json.Marshal(s)
	return b
}
