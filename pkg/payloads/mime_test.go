package payloads

import "testing"

func TestFileFromDetectedBytesPicksPNGExtension(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	ref := FileFromDetectedBytes("photo", png)
	if ref.Kind != FileRefBytes {
		t.Fatalf("expected FileRefBytes, got %v", ref.Kind)
	}
	if ref.Filename != "photo.png" {
		t.Fatalf("expected photo.png, got %q", ref.Filename)
	}
}

func TestFileFromDetectedBytesFallsBackOnUnknownContent(t *testing.T) {
	ref := FileFromDetectedBytes("blob", []byte{0x00, 0x01, 0x02})
	if ref.Filename != "blob.bin" {
		t.Fatalf("expected blob.bin fallback, got %q", ref.Filename)
	}
}
