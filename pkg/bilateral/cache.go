package bilateral

import "sync"

type kernelKey struct {
	diameter   int
	sigmaSpace float64
}

type kernelEntry struct {
	kernel *SpatialKernel
	atime  int64
}

// KernelCache memoizes spatial kernels by (diameter, sigma_space). Cached
// kernels are immutable, so handing the same pointer to concurrent callers
// is safe. When more than limit kernels are held the least recently used
// one is dropped.
//
// KernelCache is safe for concurrent use. The zero value is not usable;
// call NewKernelCache.
type KernelCache struct {
	mu      sync.Mutex
	entries map[kernelKey]*kernelEntry
	limit   int
	tick    int64
}

// NewKernelCache creates a cache holding at most limit kernels. A limit of
// 0 means unbounded.
func NewKernelCache(limit int) *KernelCache {
	return &KernelCache{
		entries: make(map[kernelKey]*kernelEntry),
		limit:   limit,
	}
}

// defaultKernelCache backs Filter unless WithKernelCache overrides it.
var defaultKernelCache = NewKernelCache(32)

// Get returns the kernel for (diameter, sigmaSpace), building it on first use.
func (c *KernelCache) Get(diameter int, sigmaSpace float64) *SpatialKernel {
	key := kernelKey{diameter: diameter, sigmaSpace: sigmaSpace}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[key]; ok {
		e.atime = c.tick
		return e.kernel
	}
	k := NewSpatialKernel(diameter, sigmaSpace)
	c.entries[key] = &kernelEntry{kernel: k, atime: c.tick}
	if c.limit > 0 && len(c.entries) > c.limit {
		c.evictOldest()
	}
	return k
}

// Len returns the number of cached kernels.
func (c *KernelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every cached kernel.
func (c *KernelCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[kernelKey]*kernelEntry)
}

// evictOldest must be called with mu held.
func (c *KernelCache) evictOldest() {
	var (
		oldest    kernelKey
		oldestT   int64
		haveFirst bool
	)
	for k, e := range c.entries {
		if !haveFirst || e.atime < oldestT {
			oldest, oldestT, haveFirst = k, e.atime, true
		}
	}
	if haveFirst {
		delete(c.entries, oldest)
	}
}
