package oracle

import (
	"strconv"
	"strings"
	"sync"
)

const dedupLimit = 100

// DedupCache remembers the fingerprints of recently produced responses so
// the engine can force regeneration on collision. Process lifetime, no
// persistence; bounded at dedupLimit with oldest-first eviction.
type DedupCache struct {
	mu    sync.Mutex
	seen  map[int]struct{}
	order []int
	limit int
}

func NewDedupCache() *DedupCache {
	return &DedupCache{
		seen:  make(map[int]struct{}, dedupLimit),
		limit: dedupLimit,
	}
}

// Fingerprint hashes the question, persona name and canonical context
// serialization with the same rolling hash MoodFor uses.
func Fingerprint(question, personaName string, payload ContextPayload) int {
	var sb strings.Builder
	sb.WriteString(question)
	sb.WriteString(personaName)
	for _, category := range contextCategoryOrder {
		items := payload[category]
		if len(items) == 0 {
			continue
		}
		sb.WriteString(category)
		sb.WriteString(":")
		sb.WriteString(strings.Join(items, ";"))
		sb.WriteString("|")
	}
	return hashString(sb.String())
}

func (c *DedupCache) Seen(fingerprint int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.seen[fingerprint]
	return exists
}

func (c *DedupCache) MarkSeen(fingerprint int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.seen[fingerprint]; exists {
		return
	}
	c.seen[fingerprint] = struct{}{}
	c.order = append(c.order, fingerprint)

	if len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.seen, oldest)
	}
}

func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// String is a debugging aid.
func (c *DedupCache) String() string {
	return "dedup(" + strconv.Itoa(c.Len()) + "/" + strconv.Itoa(c.limit) + ")"
}
