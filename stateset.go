package automata

import "slices"

// Hashable is the key contract for HashMap.
type Hashable interface {
	Hash() uint64
	Equals(other Hashable) bool
}

// IntSet is a set of NFA state indices usable as a HashMap key. The two
// implementations are StateSet (mutable scratch set the engine accumulates
// move targets into) and FrozenIntSet (immutable snapshot bound to a DFA
// state).
type IntSet interface {
	Hashable

	// GetArray returns the members in ascending order.
	GetArray() []int

	Size() int
}

// Golden ratio bit mixer constants.
const (
	phiC32 = uint32(0x9e3779b9)
	phiC64 = uint64(0x9e3779b97f4a7c15)
)

// mix32 is the 32-bit finalization step of MurmurHash3.
func mix32(v int) int {
	k := uint32(v)
	k = (k ^ (k >> 16)) * 0x85ebca6b
	k = (k ^ (k >> 13)) * 0xc2b2ae35
	return int(k ^ (k >> 16))
}

// setHash combines member hashes order-independently so that insertion
// order never changes the key.
func setHash(size int, sum uint64) uint64 {
	return uint64(size) + sum
}

// sameMembers compares two IntSets by contents. Hash equality alone is not
// identity; subset states must dedupe by value.
func sameMembers(a, b IntSet) bool {
	if a.Size() != b.Size() {
		return false
	}
	return slices.Equal(a.GetArray(), b.GetArray())
}

var _ IntSet = &StateSet{}

// StateSet is the engine's reusable accumulator for the union of NFA move
// targets. Members are added one at a time; Freeze snapshots the current
// contents into an immutable key bound to a DFA state index.
type StateSet struct {
	inner       map[int]struct{}
	hashUpdated bool
	hashCode    uint64
}

func NewStateSet() *StateSet {
	return &StateSet{
		inner: make(map[int]struct{}),
	}
}

func (s *StateSet) Hash() uint64 {
	if s.hashUpdated {
		return s.hashCode
	}
	sum := uint64(0)
	for k := range s.inner {
		sum += uint64(mix32(k))
	}
	s.hashCode = setHash(len(s.inner), sum)
	s.hashUpdated = true
	return s.hashCode
}

func (s *StateSet) Equals(other Hashable) bool {
	is, ok := other.(IntSet)
	if !ok {
		return false
	}
	return s.Hash() == is.Hash() && sameMembers(s, is)
}

func (s *StateSet) GetArray() []int {
	keys := make([]int, 0, len(s.inner))
	for k := range s.inner {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *StateSet) Size() int {
	return len(s.inner)
}

// Add inserts a state; duplicates are idempotent.
func (s *StateSet) Add(state int) {
	if _, ok := s.inner[state]; ok {
		return
	}
	s.inner[state] = struct{}{}
	s.keyChanged()
}

// Clear empties the set so it can accumulate the next move union.
func (s *StateSet) Clear() {
	clear(s.inner)
	s.keyChanged()
}

func (s *StateSet) keyChanged() {
	s.hashUpdated = false
	s.hashCode = 0
}

// Freeze snapshots the contents into an immutable key bound to the DFA
// state index that this subset was assigned.
func (s *StateSet) Freeze(state int) *FrozenIntSet {
	return NewFrozenIntSet(s.GetArray(), s.Hash(), state)
}

var _ IntSet = &FrozenIntSet{}

// FrozenIntSet is an immutable sorted set of NFA state indices, carrying
// the DFA state it was assigned and its precomputed hash.
type FrozenIntSet struct {
	values   []int
	state    int
	hashCode uint64
}

func NewFrozenIntSet(values []int, hashCode uint64, state int) *FrozenIntSet {
	return &FrozenIntSet{values: values, state: state, hashCode: hashCode}
}

func (f *FrozenIntSet) Hash() uint64 {
	return f.hashCode
}

func (f *FrozenIntSet) Equals(other Hashable) bool {
	is, ok := other.(IntSet)
	if !ok {
		return false
	}
	return f.Hash() == is.Hash() && sameMembers(f, is)
}

func (f *FrozenIntSet) GetArray() []int {
	return f.values
}

func (f *FrozenIntSet) Size() int {
	return len(f.values)
}

// State returns the DFA state index this subset was assigned.
func (f *FrozenIntSet) State() int {
	return f.state
}
