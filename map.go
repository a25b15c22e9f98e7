package automata

import "iter"

// HashMap is a chained hash table keyed on Hashable. The built-in map
// cannot key on set values, so subset-state discovery uses this table with
// IntSet keys: lookups probe with the mutable StateSet, entries store the
// FrozenIntSet snapshot.
type HashMap[T any] struct {
	buckets     []*Entry[T]
	size        int
	mask        uint64
	emptyValue  T
	loadFactory float64
}

// Entry is a single chained bucket entry.
type Entry[T any] struct {
	key   Hashable
	value T
	next  *Entry[T]
}

type optionsHashMap struct {
	capacity    int
	loadFactory float64
}

func newOptionsHashMap(opts ...OptionsHashMap) *optionsHashMap {
	options := &optionsHashMap{
		capacity:    1,
		loadFactory: 0.75,
	}

	for _, opt := range opts {
		opt(options)
	}

	// Round capacity up to a power of two so the mask works.
	realCap := 1
	for realCap < options.capacity {
		realCap <<= 1
	}
	options.capacity = realCap

	return options
}

type OptionsHashMap func(hashMap *optionsHashMap)

func WithCapacity(capacity int) OptionsHashMap {
	return func(hashMap *optionsHashMap) {
		hashMap.capacity = capacity
	}
}

func WithLoadFactory(loadFactory float64) OptionsHashMap {
	return func(hashMap *optionsHashMap) {
		hashMap.loadFactory = loadFactory
	}
}

func NewHashMap[T any](options ...OptionsHashMap) *HashMap[T] {
	opt := newOptionsHashMap(options...)

	return &HashMap[T]{
		buckets:     make([]*Entry[T], opt.capacity),
		mask:        uint64(opt.capacity - 1),
		loadFactory: opt.loadFactory,
	}
}

// Set inserts or updates the value for key.
func (m *HashMap[T]) Set(key Hashable, value T) {
	hash := key.Hash()
	index := hash & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			e.value = value
			return
		}
	}

	m.buckets[index] = &Entry[T]{
		key:   key,
		value: value,
		next:  m.buckets[index],
	}
	m.size++

	if float64(m.size)/float64(len(m.buckets)) > m.loadFactory {
		m.resize()
	}
}

// Get returns the value for key, if present.
func (m *HashMap[T]) Get(key Hashable) (T, bool) {
	hash := key.Hash()
	index := hash & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			return e.value, true
		}
	}
	return m.emptyValue, false
}

func (m *HashMap[T]) resize() {
	newCap := len(m.buckets) << 1
	newBuckets := make([]*Entry[T], newCap)
	newMask := uint64(newCap - 1)

	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			newIndex := e.key.Hash() & newMask
			newBuckets[newIndex] = &Entry[T]{
				key:   e.key,
				value: e.value,
				next:  newBuckets[newIndex],
			}
		}
	}

	m.buckets = newBuckets
	m.mask = newMask
}

// Size returns the number of entries.
func (m *HashMap[T]) Size() int {
	return m.size
}

func (m *HashMap[T]) Iterator() iter.Seq2[Hashable, T] {
	return func(yield func(Hashable, T) bool) {
		for _, bucket := range m.buckets {
			for e := bucket; e != nil; e = e.next {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}
