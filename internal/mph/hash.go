// Package mph implements the minimal perfect hash function of spec
// §4.E (hash, displace, compress) and the fingerprinted HashedMap
// built on top of it, grounded on the compactindexsized example's
// hashUint64 finalizer and the teacher's xxhash-free but structurally
// similar seed-search idiom.
package mph

import "github.com/cespare/xxhash/v2"

// mix is a Murmur3-style 64-bit finalizer, used to decorrelate the
// base hash from a per-bucket seed or a fingerprint tag without
// re-hashing the original key bytes. Grounded on compactindexsized's
// hashUint64.
func mix(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// h0 returns the base hash of key under baseSeed, used to assign the
// key to a bucket.
func h0(key []byte, baseSeed uint64) uint64 {
	return xxhash.Sum64(key) ^ baseSeed
}

// h1 returns the displaced hash of key's base hash under a
// per-bucket seed, used to probe for a free slot in [0, tableSize).
func h1(h uint64, seed uint64) uint64 {
	return mix(h ^ (seed * 0x9e3779b97f4a7c15))
}

// fingerprint returns a short tag for key, independent of h0/h1,
// used by HashedMap to reject collisions against keys not actually
// present without storing the full key.
func fingerprint(h uint64) uint32 {
	return uint32(mix(h ^ 0xd6e8feb86659fd93))
}
