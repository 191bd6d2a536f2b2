package adaptors

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

var requestIDCounter uint32

// generateRequestID returns a 12-byte ObjectID-like string (24 hex
// characters): a timestamp prefix, random bytes, and a monotonic
// counter, so concurrent Trace log lines for the same method can be
// correlated request-to-response. Grounded on the teacher's
// pkg/llm/session_manager.go-adjacent ID scheme (GenerateID).
func generateRequestID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(time.Now().Unix()))
	_, _ = rand.Read(b[4:9])
	c := atomic.AddUint32(&requestIDCounter, 1) % 0xFFFFFF
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)
	return hex.EncodeToString(b[:])
}
