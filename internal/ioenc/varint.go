// Package ioenc implements the packed variable-byte I/O (spec §4.A)
// and the typed memory-mapped disk-vector view shared by every
// on-disk structure in the index core.
package ioenc

import "encoding/binary"

// PutUvarint appends the continuation-bit varint encoding of x to buf
// and returns the grown slice. Matches spec §4.A / §6: little-endian
// 7-bit groups with continuation bit 0x80.
func PutUvarint(buf []byte, x uint64) []byte {
	return binary.AppendUvarint(buf, x)
}

// Uvarint decodes a varint from the front of buf, returning the value
// and the number of bytes consumed. n <= 0 signals a malformed varint
// (mirrors encoding/binary.Uvarint's contract).
func Uvarint(buf []byte) (uint64, int) {
	return binary.Uvarint(buf)
}

// PutVarint zig-zag encodes a signed integer before varint-packing it,
// per spec §4.A ("signed integers zig-zag encoded first").
func PutVarint(buf []byte, x int64) []byte {
	return binary.AppendVarint(buf, x)
}

// Varint decodes a zig-zag varint.
func Varint(buf []byte) (int64, int) {
	return binary.Varint(buf)
}

// PutString length-prefixes s with a varint and appends it, per spec
// §4.A ("strings are length-prefixed byte arrays").
func PutString(buf []byte, s string) []byte {
	buf = PutUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// String reads a length-prefixed string from the front of buf,
// returning the string and the number of bytes consumed. Returns
// ok=false if buf does not contain a complete length-prefixed string.
func String(buf []byte) (s string, n int, ok bool) {
	l, ln := Uvarint(buf)
	if ln <= 0 {
		return "", 0, false
	}
	total := ln + int(l)
	if total > len(buf) || total < ln {
		return "", 0, false
	}
	return string(buf[ln:total]), total, true
}
