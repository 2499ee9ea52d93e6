// Package keyed holds the partition/flatten helpers the engine uses to run a
// reduction independently inside each group of a map.
package keyed

import (
	"cmp"
	"maps"
	"slices"
)

// GroupBy partitions m by the key fn derives for each entry. Entries keep
// their original keys inside their partition.
func GroupBy[G comparable, K comparable, V any](m map[K]V, fn func(K, V) G) map[G]map[K]V {
	groups := make(map[G]map[K]V)
	for k, v := range m {
		g := fn(k, v)
		part, ok := groups[g]
		if !ok {
			part = make(map[K]V)
			groups[g] = part
		}
		part[k] = v
	}
	return groups
}

// Degroup flattens groups into one map. Keys must be disjoint across
// partitions; on overlap the later partition in iteration order wins.
func Degroup[G comparable, K comparable, V any](groups map[G]map[K]V) map[K]V {
	n := 0
	for _, part := range groups {
		n += len(part)
	}
	out := make(map[K]V, n)
	for _, part := range groups {
		maps.Copy(out, part)
	}
	return out
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

// SortedGroups returns the partition keys of groups ordered by the smallest
// member key of each partition. The group key type itself needs no order.
func SortedGroups[G comparable, K cmp.Ordered, V any](groups map[G]map[K]V) []G {
	type entry struct {
		group G
		min   K
	}
	entries := make([]entry, 0, len(groups))
	for g, part := range groups {
		first := true
		var lo K
		for k := range part {
			if first || k < lo {
				lo, first = k, false
			}
		}
		entries = append(entries, entry{group: g, min: lo})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.min, b.min) })

	out := make([]G, len(entries))
	for i, e := range entries {
		out[i] = e.group
	}
	return out
}
