// CachingList decorates an AddressableList-shaped source with an LRU of
// decoded elements, so repeated Get(i) calls for the same index (the
// common case during binary search, where the same pivot is revisited
// across probes) don't re-decode from disk every time.
package dict

import (
	"sync"

	"github.com/Code-Hex/go-generics-cache/policy/lru"
)

// addressable is the shape CachingList decorates — satisfied by both
// AddressableList and UniformAddressableList.
type addressable[T any] interface {
	Size() int
	Get(i int) (T, error)
}

// DefaultCacheCapacity is the bounded LRU's default element capacity.
const DefaultCacheCapacity = 5000

// CachingList memoizes decoded elements from an underlying addressable
// list behind an LRU of bounded size. A single mutex guards the cache;
// decoding an element happens outside the lock (a cache miss may race
// another miss for the same index and decode twice — both decodes agree,
// so the duplicate work is wasted but not incorrect) and only the final
// cache update is serialized.
type CachingList[T any] struct {
	mu     sync.Mutex
	source addressable[T]
	cache  *lru.Cache[int, T]
	full   []T // populated instead of cache when fullyCached
	full_  bool
}

// newCachingList wraps source with a bounded LRU of the given capacity.
// capacity <= 0 uses DefaultCacheCapacity.
func newCachingList[T any](source addressable[T], capacity int) *CachingList[T] {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &CachingList[T]{
		source: source,
		cache:  lru.NewCache[int, T](lru.WithCapacity(capacity)),
	}
}

// newFullyCachedList wraps source, eagerly decoding every element now
// rather than lazily on first access. Used for small, frequently-walked
// lists (the Index list and the texts list) where the decode cost is worth paying
// once up front instead of amortizing it across the session.
func newFullyCachedList[T any](source addressable[T]) (*CachingList[T], error) {
	full := make([]T, source.Size())
	for i := range full {
		v, err := source.Get(i)
		if err != nil {
			return nil, err
		}
		full[i] = v
	}
	return &CachingList[T]{source: source, full: full, full_: true}, nil
}

// Size returns the number of elements in the underlying list.
func (c *CachingList[T]) Size() int {
	if c == nil {
		return 0
	}
	if c.full_ {
		return len(c.full)
	}
	return c.source.Size()
}

// Get returns the element at index i, decoding and caching it on first
// access (unless this list is fully cached, in which case it was already
// decoded at construction time).
func (c *CachingList[T]) Get(i int) (T, error) {
	if c.full_ {
		var zero T
		if i < 0 || i >= len(c.full) {
			return zero, ErrCorrupt
		}
		return c.full[i], nil
	}

	c.mu.Lock()
	if v, ok := c.cache.Get(i); ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err := c.source.Get(i)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.cache.Set(i, v)
	c.mu.Unlock()
	return v, nil
}
