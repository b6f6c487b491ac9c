package driver

import (
	"sync"

	"hxsl/internal/project"
)

// MemoryCache keeps payloads for the life of the process. `hxslc watch`
// uses it so unchanged shaders are not recompiled on every file event.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[project.Digest]DiskPayload
}

// NewMemoryCache creates a MemoryCache with the given capacity hint.
func NewMemoryCache(capHint int) *MemoryCache {
	return &MemoryCache{entries: make(map[project.Digest]DiskPayload, capHint)}
}

func (c *MemoryCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	c.mu.RLock()
	p, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		*out = p
	}
	return ok, nil
}

func (c *MemoryCache) Put(key project.Digest, payload *DiskPayload) error {
	c.mu.Lock()
	c.entries[key] = *payload
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// layered: сначала память, затем диск; попадание с диска поднимается в память.
type layered struct {
	mem  *MemoryCache
	disk ShaderCache
}

// Layered combines a memory cache in front of disk. Either may be nil.
func Layered(mem *MemoryCache, disk ShaderCache) ShaderCache {
	switch {
	case mem == nil && disk == nil:
		return nil
	case mem == nil:
		return disk
	case disk == nil:
		return mem
	}
	return layered{mem: mem, disk: disk}
}

func (l layered) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if ok, _ := l.mem.Get(key, out); ok {
		return true, nil
	}
	ok, err := l.disk.Get(key, out)
	if ok {
		_ = l.mem.Put(key, out)
	}
	return ok, err
}

func (l layered) Put(key project.Digest, payload *DiskPayload) error {
	_ = l.mem.Put(key, payload)
	return l.disk.Put(key, payload)
}
