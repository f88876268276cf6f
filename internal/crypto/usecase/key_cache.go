package usecase

import (
	"sync"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
)

// cachedKey pairs a derived key with the cipher built from it. The cipher keeps
// its own key schedule, so wiping key never affects a Seal or Open that already
// holds the cipher.
type cachedKey struct {
	mu     sync.Mutex
	key    []byte
	wiped  bool
	cipher cryptoService.AEAD
}

// copyKey returns a copy of the key, or false once the entry has been wiped.
func (k *cachedKey) copyKey() ([]byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.wiped {
		return nil, false
	}
	out := make([]byte, len(k.key))
	copy(out, k.key)
	return out, true
}

// wipe zeroes the key. The cipher stays usable.
func (k *cachedKey) wipe() {
	k.mu.Lock()
	defer k.mu.Unlock()
	cryptoDomain.Zero(k.key)
	k.wiped = true
}

// keyCache maps subject ids to derived keys. Every purge bumps the generation so
// that a derivation started before the purge cannot repopulate the cache.
type keyCache struct {
	mu         sync.RWMutex
	entries    map[string]*cachedKey
	generation uint64
}

func newKeyCache() *keyCache {
	return &keyCache{entries: make(map[string]*cachedKey)}
}

func (c *keyCache) get(subjectID string) (*cachedKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[subjectID]
	return entry, ok
}

func (c *keyCache) currentGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// put stores entry unless the cache was purged since generation was read.
// It reports whether the entry was stored.
func (c *keyCache) put(subjectID string, entry *cachedKey, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false
	}
	if old, ok := c.entries[subjectID]; ok {
		old.wipe()
	}
	c.entries[subjectID] = entry
	return true
}

func (c *keyCache) remove(subjectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[subjectID]; ok {
		entry.wipe()
		delete(c.entries, subjectID)
	}
	c.generation++
}

func (c *keyCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for subjectID, entry := range c.entries {
		entry.wipe()
		delete(c.entries, subjectID)
	}
	c.generation++
}

func (c *keyCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
