package keyed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByKeepsOriginalKeys(t *testing.T) {
	t.Parallel()

	m := map[int]string{1: "a", 2: "b", 3: "a", 4: "c"}
	groups := GroupBy(m, func(_ int, v string) string { return v })

	require.Len(t, groups, 3)
	assert.Equal(t, map[int]string{1: "a", 3: "a"}, groups["a"])
	assert.Equal(t, map[int]string{2: "b"}, groups["b"])
	assert.Equal(t, map[int]string{4: "c"}, groups["c"])
}

func TestGroupByEmpty(t *testing.T) {
	t.Parallel()

	groups := GroupBy(map[int]int{}, func(k, _ int) int { return k })
	assert.Empty(t, groups)
	assert.Empty(t, Degroup(groups))
}

func TestDegroupInvertsGroupBy(t *testing.T) {
	t.Parallel()

	m := map[int]int{1: 10, 2: 20, 3: 30, 4: 40, 5: 50}
	groups := GroupBy(m, func(k, _ int) bool { return k%2 == 0 })
	assert.Equal(t, m, Degroup(groups))
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{1, 5, 9}, SortedKeys(map[int]bool{9: true, 1: true, 5: false}))
}

func TestSortedGroupsOrdersBySmallestMember(t *testing.T) {
	t.Parallel()

	groups := map[string]map[int]int{
		"late":  {7: 0, 3: 0},
		"early": {9: 0, 1: 0},
		"mid":   {2: 0},
	}
	assert.Equal(t, []string{"early", "mid", "late"}, SortedGroups(groups))
}
