package chmap

import (
	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// hashPrime is the 64-bit Golden Ratio mixing constant.
const hashPrime = 0x9E3779B185EBCA87

// HashBytes hashes b with xxHash64. It is the default hash of RecordMap.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// HashString hashes s with xxHash64 without copying it.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashInteger is the identity hash for integer keys. Sequential keys land
// in consecutive buckets, which is usually what integer keys want.
func HashInteger[T constraints.Integer](v T) uint64 {
	return uint64(v)
}

// MixInteger spreads integer keys with a multiplicative golden-ratio
// hash, for keys sharing low bits such as multiples of the bucket count.
func MixInteger[T constraints.Integer](v T) uint64 {
	h := uint64(v) * hashPrime
	return h ^ h>>32
}

// Equal reports whether a == b. It pairs with the hash helpers for
// comparable keys.
func Equal[T comparable](a, b T) bool {
	return a == b
}
