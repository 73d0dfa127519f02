package coder

import "math/bits"

// SignedBits returns the smallest field width that holds every value as a
// two's complement bit field. Zero needs no bits.
func SignedBits(values ...int32) int {
	n := 0
	for _, v := range values {
		if v == 0 {
			continue
		}
		u := uint32(v)
		if v < 0 {
			u = ^u
		}
		if w := bits.Len32(u) + 1; w > n {
			n = w
		}
	}
	return n
}

// UnsignedBits returns the smallest field width that holds every value.
func UnsignedBits(values ...uint32) int {
	n := 0
	for _, v := range values {
		if w := bits.Len32(v); w > n {
			n = w
		}
	}
	return n
}
