package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"github.com/sells-group/chase-cli/internal/fetcher"
)

// memoCache caches normalization output keyed by raw-input identity.
// Normalization is invariant to filter selection, so interactive
// recomputation only pays for the aggregate stages.
type memoCache struct {
	mu      sync.RWMutex
	entries map[string]*Normalized
}

func (c *memoCache) get(key string) (*Normalized, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.entries[key]
	return n, ok
}

func (c *memoCache) put(key string, n *Normalized) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]*Normalized)
	}
	c.entries[key] = n
}

// fingerprint identifies a loaded table: source name, header, row
// count, and row contents. Two loads of the same snapshot hash equal.
func fingerprint(t *fetcher.Table) string {
	h := sha256.New()
	h.Write([]byte(t.Source))
	for _, cell := range t.Header {
		h.Write([]byte(cell))
		h.Write([]byte{0})
	}
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(t.Rows)))
	h.Write(n[:])
	for _, row := range t.Rows {
		for _, cell := range row {
			h.Write([]byte(cell))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}
