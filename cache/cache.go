// Package cache memoizes decoded instruction fields using Akita cache
// components.
//
// Only the register-independent part of a decode (insts.Fields) is stored,
// so one entry serves every pc/base pair.
package cache

import (
	"sync"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/sicxe/insts"
)

// Config holds cache geometry.
type Config struct {
	// Sets is the number of sets.
	Sets int
	// Ways is the associativity.
	Ways int
}

// DefaultConfig returns a 256-entry, 4-way cache.
func DefaultConfig() Config {
	return Config{
		Sets: 64,
		Ways: 4,
	}
}

// Statistics holds cache statistics.
type Statistics struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a set-associative LRU cache of decoded fields keyed by
// insts.Encoding.Key. It is safe for concurrent use.
type Cache struct {
	mu sync.Mutex

	config Config

	// Akita directory for tag/LRU management. Block size is 1, so the
	// tag is the key itself.
	directory *akitacache.DirectoryImpl

	// Indexed by (setID * ways + wayID)
	entries []insts.Fields

	stats Statistics
}

// New creates a new cache with the given configuration.
func New(config Config) *Cache {
	if config.Sets <= 0 || config.Ways <= 0 {
		config = DefaultConfig()
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			config.Sets,
			config.Ways,
			1,
			akitacache.NewLRUVictimFinder(),
		),
		entries: make([]insts.Fields, config.Sets*config.Ways),
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = Statistics{}
}

// Reset invalidates all entries and clears statistics.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.directory.Reset()
	c.stats = Statistics{}
}

func (c *Cache) entryIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Ways + block.WayID
}

// Get looks up the fields stored under key.
func (c *Cache) Get(key uint64) (insts.Fields, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Lookups++

	block := c.directory.Lookup(0, key)
	if block == nil || !block.IsValid {
		c.stats.Misses++
		return insts.Fields{}, false
	}

	c.stats.Hits++
	c.directory.Visit(block)

	return c.entries[c.entryIndex(block)], true
}

// Put stores fields under key, evicting the least recently used entry of
// the set if needed.
func (c *Cache) Put(key uint64, fields insts.Fields) {
	c.mu.Lock()
	defer c.mu.Unlock()

	block := c.directory.Lookup(0, key)
	if block == nil || !block.IsValid {
		block = c.directory.FindVictim(key)
		if block == nil {
			return
		}
		if block.IsValid {
			c.stats.Evictions++
		}
		block.Tag = key
		block.IsValid = true
	}

	c.entries[c.entryIndex(block)] = fields
	c.directory.Visit(block)
}

// Decode decodes hexCode like insts.Decoder.Decode, reusing cached fields
// when the same encoding was decoded before. Errors are not cached.
func (c *Cache) Decode(
	d *insts.Decoder,
	hexCode string,
	pc, base uint32,
) (*insts.Instruction, error) {
	enc, err := insts.ParseEncoding(hexCode)
	if err != nil {
		return nil, err
	}

	key := enc.Key()
	if fields, ok := c.Get(key); ok {
		return fields.Resolve(pc, base), nil
	}

	fields, err := d.Fields(enc)
	if err != nil {
		return nil, err
	}
	c.Put(key, fields)

	return fields.Resolve(pc, base), nil
}
