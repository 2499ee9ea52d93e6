package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/masswar/internal/board"
	"github.com/lox/masswar/internal/randutil"
)

func TestMergeGroupSingleCellIsIdentity(t *testing.T) {
	t.Parallel()

	r := testResolver(randutil.New(1), AnnihilateVitamins)
	for _, c := range []board.Cell{board.NewCell("A", 7), board.NewVitamin(1), board.NewCell("B", 0)} {
		group := map[int]board.Cell{3: c}
		assert.Equal(t, group, mergeGroup(r, group))
	}
}

func TestMergeGroupWinnerTakesAll(t *testing.T) {
	t.Parallel()

	r := testResolver(randutil.New(1), AnnihilateVitamins)
	group := map[int]board.Cell{
		1: board.NewCell("A", 3),
		2: board.NewCell("B", 8),
		3: board.NewCell("C", 1),
	}

	got := mergeGroup(r, group)

	assert.Equal(t, board.NewCell("B", 12), got[2])
	assert.Equal(t, board.NewCell("A", 0), got[1])
	assert.Equal(t, board.NewCell("C", 0), got[3])
}

func TestMergeGroupDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	r := testResolver(randutil.New(1), AnnihilateVitamins)
	group := map[int]board.Cell{1: board.NewCell("A", 3), 2: board.NewCell("B", 5)}
	snapshot := map[int]board.Cell{1: board.NewCell("A", 3), 2: board.NewCell("B", 5)}

	mergeGroup(r, group)
	assert.Equal(t, snapshot, group)
}

func TestMergeGroupTieBreakUsesSource(t *testing.T) {
	t.Parallel()

	group := map[int]board.Cell{
		10: board.NewCell("A", 5),
		20: board.NewCell("B", 5),
		30: board.NewCell("C", 2),
	}

	// candidates are visited in ascending key order: [10, 20]
	first := mergeGroup(testResolver(&scriptedSource{picks: []int{0}}, AnnihilateVitamins), group)
	assert.Equal(t, board.Weight(12), first[10].Weight)
	assert.Equal(t, board.Weight(0), first[20].Weight)

	second := mergeGroup(testResolver(&scriptedSource{picks: []int{1}}, AnnihilateVitamins), group)
	assert.Equal(t, board.Weight(0), second[10].Weight)
	assert.Equal(t, board.Weight(12), second[20].Weight)
}

func TestMergeGroupVitaminNeverWinsTie(t *testing.T) {
	t.Parallel()

	group := map[int]board.Cell{
		1: board.NewVitamin(1),
		2: board.NewCell("A", 1),
	}
	for seed := int64(0); seed < 20; seed++ {
		got := mergeGroup(testResolver(randutil.New(seed), AnnihilateVitamins), group)
		require.Equal(t, board.NewCell("A", 2), got[2])
		require.Equal(t, board.NewVitamin(0), got[1])
	}
}

func TestMergeGroupVitaminPolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		policy    VitaminPolicy
		group     map[int]board.Cell
		wantTotal board.Weight
	}{
		{
			name:      "annihilate all-vitamin group",
			policy:    AnnihilateVitamins,
			group:     map[int]board.Cell{1: board.NewVitamin(1), 2: board.NewVitamin(1)},
			wantTotal: 0,
		},
		{
			name:      "annihilate when a vitamin is heaviest",
			policy:    AnnihilateVitamins,
			group:     map[int]board.Cell{1: board.NewVitamin(4), 2: board.NewCell("A", 2)},
			wantTotal: 0,
		},
		{
			name:      "conserve all-vitamin group",
			policy:    ConserveVitamins,
			group:     map[int]board.Cell{1: board.NewVitamin(1), 2: board.NewVitamin(1)},
			wantTotal: 2,
		},
		{
			name:      "conserve when a vitamin is heaviest",
			policy:    ConserveVitamins,
			group:     map[int]board.Cell{1: board.NewVitamin(4), 2: board.NewCell("A", 2)},
			wantTotal: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := mergeGroup(testResolver(randutil.New(3), tt.policy), tt.group)
			assert.Equal(t, tt.wantTotal, sumCells(got))
			assert.LessOrEqual(t, aliveCells(got), 1)
			for _, c := range got {
				if c.Alive() {
					assert.True(t, c.IsVitamin())
					assert.Equal(t, tt.wantTotal, c.Weight)
				}
			}
		})
	}
}

func TestMergeGroupConservesMass(t *testing.T) {
	t.Parallel()

	rng := randutil.New(2024)
	players := []board.Occupant{"A", "B", "C"}

	for i := 0; i < 500; i++ {
		group := make(map[int]board.Cell)
		n := 2 + rng.IntN(6)
		for k := 0; k < n; k++ {
			if rng.IntN(4) == 0 {
				group[k] = board.NewVitamin(1)
				continue
			}
			group[k] = board.NewCell(players[rng.IntN(len(players))], board.Weight(1+rng.IntN(20)))
		}
		if aliveCells(group) == 0 {
			continue
		}
		hasPlayer := false
		for _, c := range group {
			hasPlayer = hasPlayer || !c.IsVitamin()
		}
		if !hasPlayer {
			continue
		}

		got := mergeGroup(testResolver(rng, AnnihilateVitamins), group)
		require.Equal(t, sumCells(group), sumCells(got), "group %v", group)
		require.Equal(t, 1, aliveCells(got))
		require.Len(t, got, len(group))
	}
}

func TestMergeConsolidatesOccupantFirst(t *testing.T) {
	t.Parallel()

	r := testResolver(randutil.New(5), AnnihilateVitamins)

	t.Run("same occupant only", func(t *testing.T) {
		got := merge(r, map[int]board.Cell{1: board.NewCell("A", 4), 2: board.NewCell("A", 5)})
		assert.Equal(t, board.NewCell("A", 0), got[1])
		assert.Equal(t, board.NewCell("A", 9), got[2])
	})

	t.Run("consolidated mass beats a heavier single cell", func(t *testing.T) {
		got := merge(r, map[int]board.Cell{
			1: board.NewCell("A", 4),
			2: board.NewCell("A", 5),
			3: board.NewCell("B", 6),
		})
		assert.Equal(t, board.NewCell("A", 15), got[2])
		assert.Equal(t, board.Weight(0), got[1].Weight)
		assert.Equal(t, board.Weight(0), got[3].Weight)
	})

	t.Run("colliding vitamins annihilate before the contest", func(t *testing.T) {
		got := merge(r, map[int]board.Cell{
			1: board.NewVitamin(1),
			2: board.NewVitamin(1),
			3: board.NewCell("A", 1),
		})
		assert.Equal(t, board.NewCell("A", 1), got[3])
		assert.Equal(t, 1, aliveCells(got))
	})

	t.Run("colliding vitamins conserved outweigh a light player", func(t *testing.T) {
		conserve := testResolver(randutil.New(5), ConserveVitamins)
		got := merge(conserve, map[int]board.Cell{
			1: board.NewVitamin(1),
			2: board.NewVitamin(1),
			3: board.NewCell("A", 1),
		})
		assert.Equal(t, board.Weight(3), sumCells(got))
		assert.Equal(t, board.Weight(0), got[3].Weight)
	})
}

func TestMergeByKeepsPartitionsApart(t *testing.T) {
	t.Parallel()

	r := testResolver(randutil.New(5), AnnihilateVitamins)
	cells := map[int]board.Cell{
		1:  board.NewCell("A", 4),
		2:  board.NewCell("B", 6),
		11: board.NewCell("A", 9),
		12: board.NewCell("C", 1),
	}

	got := mergeBy(r, cells, func(k int, _ board.Cell) int { return k / 10 })

	assert.Equal(t, board.NewCell("B", 10), got[2])
	assert.Equal(t, board.NewCell("A", 10), got[11])
	assert.Equal(t, board.Weight(0), got[1].Weight)
	assert.Equal(t, board.Weight(0), got[12].Weight)
	assert.Len(t, got, 4)
}
