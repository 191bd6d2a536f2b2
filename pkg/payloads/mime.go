package payloads

import (
	"mime"
	"net/http"
)

// FileFromDetectedBytes wraps in-memory content, sniffing a filename
// extension from its bytes (via net/http's content-type detection)
// instead of requiring the caller to already know the file's type —
// useful when re-uploading content this framework itself downloaded via
// Bot.DownloadFile. base names the file sans extension, e.g. "photo".
func FileFromDetectedBytes(base string, data []byte) FileRef {
	return FileRef{Kind: FileRefBytes, Filename: base + detectExt(data), Bytes: data}
}

// detectExt sniffs data's MIME type and returns the first extension
// mime.ExtensionsByType lists for it (alphabetical order), defaulting to
// ".bin" when detection or lookup fails.
func detectExt(data []byte) string {
	mimeType := "application/octet-stream"
	if len(data) > 0 {
		mimeType = http.DetectContentType(data)
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}
