package state

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/rlp"
)

// Store is the key value view every runtime module reads and writes. Both
// storage.Storage and Cache satisfy it.
type Store interface {
	Get(key []byte) []byte
	Has(key []byte) bool
	Put(key, value []byte)
	Delete(key []byte)
}

// Writer receives the flushed content of a cache, usually a storage batch
type Writer interface {
	Put(key, value []byte)
	Delete(key []byte)
}

type entry struct {
	value   []byte
	deleted bool
}

// Cache buffers writes on top of a parent store. Nothing reaches the parent
// until Commit, so a failed operation is undone by dropping the cache.
type Cache struct {
	parent Store
	dirty  map[string]*entry
}

func NewCache(parent Store) *Cache {
	return &Cache{
		parent: parent,
		dirty:  make(map[string]*entry),
	}
}

// NewMemStore returns a cache without parent, usable as an in-memory store
func NewMemStore() *Cache {
	return NewCache(nil)
}

func (c *Cache) Get(key []byte) []byte {
	if e, ok := c.dirty[string(key)]; ok {
		if e.deleted {
			return nil
		}
		return copyBytes(e.value)
	}
	if c.parent == nil {
		return nil
	}
	return c.parent.Get(key)
}

func (c *Cache) Has(key []byte) bool {
	if e, ok := c.dirty[string(key)]; ok {
		return !e.deleted
	}
	if c.parent == nil {
		return false
	}
	return c.parent.Has(key)
}

func (c *Cache) Put(key, value []byte) {
	c.dirty[string(key)] = &entry{value: copyBytes(value)}
}

func (c *Cache) Delete(key []byte) {
	c.dirty[string(key)] = &entry{deleted: true}
}

// Len returns the number of buffered writes
func (c *Cache) Len() int {
	return len(c.dirty)
}

// Commit pushes buffered writes into the parent store
func (c *Cache) Commit() {
	if c.parent == nil {
		return
	}
	c.Flush(c.parent)
}

// Flush writes buffered changes into w in key order and empties the cache
func (c *Cache) Flush(w Writer) {
	keys := make([]string, 0, len(c.dirty))
	for k := range c.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		e := c.dirty[k]
		if e.deleted {
			w.Delete([]byte(k))
		} else {
			w.Put([]byte(k), e.value)
		}
	}
	c.dirty = make(map[string]*entry)
}

// Discard drops every buffered write
func (c *Cache) Discard() {
	c.dirty = make(map[string]*entry)
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}

// GetRLP decodes the value under key into v. It reports false when the key
// is absent.
func GetRLP(s Store, key []byte, v interface{}) (bool, error) {
	data := s.Get(key)
	if data == nil {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func PutRLP(s Store, key []byte, v interface{}) error {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.Put(key, data)
	return nil
}

// GetUint64 returns the decimal counter stored under key, 0 when unset
func GetUint64(s Store, key []byte) (uint64, error) {
	v := s.Get(key)
	if v == nil {
		return 0, nil
	}
	return strconv.ParseUint(string(v), 10, 64)
}

func PutUint64(s Store, key []byte, n uint64) {
	s.Put(key, []byte(strconv.FormatUint(n, 10)))
}
