package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ovoronin/lexcite/internal/model"
)

// Cache is the verification lookup cache contract. It is an explicit
// collaborator injected into the resolver, never process-wide state.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a citation string. The text is normalized
// (lowercased, whitespace collapsed) so "100 F.3d 1" and "100  f.3d 1"
// share an entry.
func Key(citationText string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(citationText)), " ")
	hash := sha256.Sum256([]byte(normalized))
	return "lexcite:v1:" + hex.EncodeToString(hash[:])
}

// New builds the cache configured for verification lookups: layered
// memory+disk when a directory is set, memory-only otherwise, and a
// no-op cache when disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Nop{}
	}
	if cfg.Dir != "" {
		return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
	}
	return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
}

// Nop is a cache that stores nothing, used when caching is disabled
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
