package image

import (
	"path"
	"strconv"
	"strings"
	"sync"
)

// keyGenerator derives object keys from a millisecond clock plus the original
// file extension. The clock is forced strictly increasing within the process,
// so two uploads sharing an extension can never collide here. Across processes
// the same-millisecond collision window remains; acceptable for the low
// upload rates this service targets.
type keyGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() int64 // unix milliseconds, swappable for tests
}

func newKeyGenerator(now func() int64) *keyGenerator {
	return &keyGenerator{now: now}
}

// Next returns a new object key preserving the extension of the given filename.
func (g *keyGenerator) Next(filename string) string {
	g.mu.Lock()
	ts := g.now()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	g.mu.Unlock()

	return strconv.FormatInt(ts, 10) + path.Ext(filename)
}

// objectKeyFromURL recovers the object key from a public URL: the last path
// segment. Returns "" if no key can be derived.
func objectKeyFromURL(url string) string {
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return ""
	}
	return url[idx+1:]
}
