package kv

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Storage holds (string, string) pairs in insertion order. Lookups are
// case-insensitive, yet the original casing of keys stays intact, so a
// decoded header set can be re-serialized byte-identically. It acts as a
// map but uses linear search instead, which proves to be more efficient on
// the low entry counts a part's header block carries.
type Storage struct {
	pairs      []Pair
	uniqueBuff []string
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// Add adds a new pair of key and value.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return s
}

// Value returns the first value, corresponding to the key. Otherwise, empty
// string is returned.
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns either the first value corresponding to the key or the
// fallback passed via the second parameter.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns a value and a bool, indicating whether the key is present at all.
func (s *Storage) Get(key string) (string, bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Extend appends the last entry's value. Used for obsolete header line
// folding, where a continuation belongs to the most recently added header.
func (s *Storage) Extend(value string) *Storage {
	if len(s.pairs) > 0 {
		s.pairs[len(s.pairs)-1].Value += value
	}

	return s
}

// Values iterates over all the values, corresponding to the key.
func (s *Storage) Values(key string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, pair := range s.pairs {
			if strcomp.EqualFold(key, pair.Key) {
				if !yield(pair.Value) {
					return
				}
			}
		}
	}
}

// Pairs iterates over all the stored pairs in insertion order.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Keys returns all unique presented keys.
//
// WARNING: calling it twice will override values, returned by the first call.
// Consider copying the returned slice for safe use.
func (s *Storage) Keys() []string {
	s.uniqueBuff = s.uniqueBuff[:0]

	for _, pair := range s.pairs {
		if !contains(s.uniqueBuff, pair.Key) {
			s.uniqueBuff = append(s.uniqueBuff, pair.Key)
		}
	}

	return s.uniqueBuff
}

func (s *Storage) Len() int {
	return len(s.pairs)
}

func (s *Storage) Empty() bool {
	return len(s.pairs) == 0
}

// Clone returns a deep copy, which can outlive the origin.
func (s *Storage) Clone() *Storage {
	clone := NewPrealloc(len(s.pairs))
	clone.pairs = append(clone.pairs, s.pairs...)
	return clone
}

// Clear the storage. As the underlying space is kept, it is advisable to
// reuse the instance when decoding repeatedly.
func (s *Storage) Clear() *Storage {
	s.pairs = s.pairs[:0]
	return s
}

func contains(elements []string, key string) bool {
	for _, element := range elements {
		if strcomp.EqualFold(element, key) {
			return true
		}
	}

	return false
}
