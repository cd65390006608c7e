package nodelist

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// IDFn generates a node identifier from the record's zero-based position in
// the document. The stored format carries no identifiers, so every decoded
// node gets one from an IDFn.
type IDFn func(idx int) string

// UUIDFn ignores idx and returns a random RFC 4122 UUID, e.g.
// "9b2f0c1e-6c43-4e4f-a0c1-2d5ad0b2f1aa". It is the default scheme.
func UUIDFn(_ int) string {
	return uuid.NewString()
}

// IndexIDFn returns the decimal string of idx, e.g. 0→"0", 42→"42".
// Deterministic; useful for tests and for diffing route output.
func IndexIDFn(idx int) string {
	return strconv.Itoa(idx)
}

// PrefixIDFn returns prefix + decimal index, e.g. "n0", "n1", ...
// Panics if idx < 0.
func PrefixIDFn(prefix string) IDFn {
	return func(idx int) string {
		if idx < 0 {
			panic(fmt.Sprintf("PrefixIDFn: idx must be ≥ 0, got %d", idx))
		}
		return prefix + strconv.Itoa(idx)
	}
}
