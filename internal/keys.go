package internal

import (
	"fmt"
	"math"
	"slices"
)

// Key is a data coordinate. The runtime only orders keys, it never
// interprets them.
type Key = float64

// Range is a closed coordinate interval [Lo, Hi].
type Range struct {
	Lo Key
	Hi Key
}

// Valid reports whether both endpoints are finite and Lo <= Hi.
func (r Range) Valid() bool {
	return Finite(r.Lo) && Finite(r.Hi) && r.Lo <= r.Hi
}

// Finite reports whether k can address data: NaN and infinities cannot.
func Finite(k Key) bool {
	return !math.IsNaN(k) && !math.IsInf(k, 0)
}

func (r Range) Contains(k Key) bool {
	return r.Lo <= k && k <= r.Hi
}

// Endpoints returns the default sparse key set for r: {Lo} plus {Hi} when
// it differs.
func (r Range) Endpoints() Keys {
	if r.Lo == r.Hi {
		return Keys{r.Lo}
	}
	return Keys{r.Lo, r.Hi}
}

// Cover widens r just enough to contain every key of the sorted set keys.
func (r Range) Cover(keys Keys) Range {
	if len(keys) == 0 {
		return r
	}
	return Range{
		Lo: min(r.Lo, keys[0]),
		Hi: max(r.Hi, keys[len(keys)-1]),
	}
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Lo, r.Hi)
}

// Keys is an ascending set of coordinates without duplicates.
type Keys []Key

// NewKeys returns a sorted, de-duplicated copy of keys.
func NewKeys(keys ...Key) Keys {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}

func (k Keys) Contains(key Key) bool {
	_, found := slices.BinarySearch(k, key)
	return found
}

// Intersect returns the keys present in both sets.
func (k Keys) Intersect(other Keys) Keys {
	var out Keys
	for _, key := range k {
		if other.Contains(key) {
			out = append(out, key)
		}
	}
	return out
}

func (k Keys) Clone() Keys {
	return slices.Clone(k)
}

// Finite returns the finite keys of k.
func (k Keys) Finite() Keys {
	return slices.DeleteFunc(slices.Clone(k), func(key Key) bool { return !Finite(key) })
}

// RangeMerge combines the ranges of a node's inputs into its output range.
type RangeMerge func(ranges []Range) Range

// KeysMerge combines several key sets into one.
type KeysMerge func(sets []Keys) Keys

// UnionRange is the default RangeMerge: min of the lows, max of the highs.
func UnionRange(ranges []Range) Range {
	if len(ranges) == 0 {
		return Range{}
	}
	out := ranges[0]
	for _, r := range ranges[1:] {
		out.Lo = min(out.Lo, r.Lo)
		out.Hi = max(out.Hi, r.Hi)
	}
	return out
}

// UnionKeys is the default KeysMerge: the sorted unique concatenation.
func UnionKeys(sets []Keys) Keys {
	var all Keys
	for _, s := range sets {
		all = append(all, s...)
	}
	return NewKeys(all...)
}
