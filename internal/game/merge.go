package game

import (
	"cmp"

	"github.com/charmbracelet/log"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/keyed"
	"github.com/lox/masswar/internal/randutil"
)

// resolver carries what a merge needs besides the cells: the tie-break
// source and the vitamin policy.
type resolver struct {
	rng    randutil.Source
	policy VitaminPolicy
	logger *log.Logger
}

// mergeGroup gives the group's total weight to one of its heaviest
// non-vitamin cells, chosen at random, and zeroes every other cell. A
// single-cell group is returned as is. The input is never modified.
func mergeGroup[K cmp.Ordered](r resolver, group map[K]board.Cell) map[K]board.Cell {
	out := make(map[K]board.Cell, len(group))
	if len(group) <= 1 {
		for k, c := range group {
			out[k] = c
		}
		return out
	}

	var total, heaviest board.Weight
	for _, c := range group {
		total += c.Weight
		heaviest = max(heaviest, c.Weight)
	}

	keys := keyed.SortedKeys(group)
	candidates := make([]K, 0, len(keys))
	for _, k := range keys {
		if c := group[k]; c.Weight == heaviest && !c.IsVitamin() {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 && r.policy == ConserveVitamins {
		for _, k := range keys {
			if group[k].Weight == heaviest {
				candidates = append(candidates, k)
			}
		}
	}

	if len(candidates) == 0 {
		if total > 0 {
			r.logger.Debug("Merge group annihilated", "cells", len(group), "weight", total)
		}
		for k, c := range group {
			out[k] = c.WithWeight(0)
		}
		return out
	}

	winner := randutil.Pick(r.rng, candidates)
	for k, c := range group {
		if k == winner {
			out[k] = c.WithWeight(total)
		} else {
			out[k] = c.WithWeight(0)
		}
	}
	return out
}

// merge consolidates each occupant's cells first, then lets the heaviest
// occupant take the whole group.
func merge[K cmp.Ordered](r resolver, group map[K]board.Cell) map[K]board.Cell {
	byOccupant := keyed.GroupBy(group, func(_ K, c board.Cell) board.Occupant { return c.Occupant })

	consolidated := make(map[board.Occupant]map[K]board.Cell, len(byOccupant))
	for _, o := range keyed.SortedGroups(byOccupant) {
		consolidated[o] = mergeGroup(r, byOccupant[o])
	}
	return mergeGroup(r, keyed.Degroup(consolidated))
}

// mergeBy runs merge independently inside every partition of cells sharing
// the same key. Partitions never exchange mass.
func mergeBy[K cmp.Ordered, G comparable](r resolver, cells map[K]board.Cell, key func(K, board.Cell) G) map[K]board.Cell {
	groups := keyed.GroupBy(cells, key)

	merged := make(map[G]map[K]board.Cell, len(groups))
	for _, g := range keyed.SortedGroups(groups) {
		merged[g] = merge(r, groups[g])
	}
	return keyed.Degroup(merged)
}
