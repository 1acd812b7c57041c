// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

// Merge overlays partial maps left to right: for every key, the rightmost
// layer that contains it wins. Keys absent from a layer are left untouched.
// The merge is one level deep; nested values are shared, not copied.
// The result is always a fresh non-nil map.
func Merge[M ~map[K]V, K comparable, V any](layers ...M) M {
	size := 0
	for _, l := range layers {
		size += len(l)
	}
	out := make(M, size)
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}
