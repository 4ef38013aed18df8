package model

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]Icon{
		{Name: "house", Location: "img/house.svg"},
		{Name: "tree", Location: "img/tree.svg"},
		{Name: "car", Location: "img/car.svg"},
		{Name: "cloud", Location: "img/cloud.svg"},
		{Name: "rose", Location: "img/rose.svg"},
	})
	require.NoError(t, err)
	return c
}

func TestNewCatalog(t *testing.T) {
	t.Run("keeps declaration order", func(t *testing.T) {
		c := testCatalog(t)
		assert.Equal(t, []string{"house", "tree", "car", "cloud", "rose"}, c.Names())
		assert.Equal(t, 5, c.Len())
		loc, ok := c.Location("car")
		assert.True(t, ok)
		assert.Equal(t, "img/car.svg", loc)
		_, ok = c.Location("boat")
		assert.False(t, ok)
	})

	t.Run("too small", func(t *testing.T) {
		_, err := NewCatalog([]Icon{
			{Name: "a", Location: "a"},
			{Name: "b", Location: "b"},
			{Name: "c", Location: "c"},
			{Name: "d", Location: "d"},
		})
		assert.ErrorIs(t, err, ErrCatalogTooSmall)
	})

	t.Run("invalid entries", func(t *testing.T) {
		base := []Icon{{Name: "a", Location: "a"}, {Name: "b", Location: "b"}, {Name: "c", Location: "c"}, {Name: "d", Location: "d"}}
		_, err := NewCatalog(append(base, Icon{Name: "a", Location: "other"}))
		assert.ErrorContains(t, err, "declared twice")
		_, err = NewCatalog(append(base, Icon{Name: "e"}))
		assert.ErrorContains(t, err, "no location")
		_, err = NewCatalog(append(base, Icon{Location: "e"}))
		assert.ErrorContains(t, err, "without name")
	})
}

func TestStartRound(t *testing.T) {
	c := testCatalog(t)
	r := rand.New(rand.NewPCG(1, 2))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		s := StartRound(c, r)
		_, ok := c.Location(s.Target)
		require.True(t, ok)
		assert.Zero(t, s.Found)
		seen[s.Target] = true
	}
	assert.Len(t, seen, c.Len())
}

func TestRecordFind(t *testing.T) {
	s := RoundState{Target: "tree"}
	for i := 1; i <= WinCount; i++ {
		s = s.RecordFind()
		assert.Equal(t, i, s.Found)
	}
	assert.True(t, s.Won())
	s = s.RecordFind()
	assert.Equal(t, WinCount, s.Found)
}

func TestBuildGridInvariants(t *testing.T) {
	c := testCatalog(t)
	for seed := uint64(0); seed < 300; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*7+1))
		s := StartRound(c, r)
		g := BuildGrid(c, s, r)

		require.Len(t, g.Cells, GridCells)
		bearing := 0
		for id, cell := range g.Cells {
			assert.Equal(t, id, cell.Id)
			icons := map[string]bool{}
			targets := 0
			for i, p := range cell.Placements {
				assert.Equal(t, Quadrants[i], p.Quadrant)
				assert.False(t, icons[p.Icon], "icon %s twice in cell %d", p.Icon, id)
				icons[p.Icon] = true
				if p.Icon == s.Target {
					targets++
				}
			}
			if cell.TargetBearing {
				bearing++
				assert.Equal(t, 1, targets)
			} else {
				assert.Zero(t, targets)
			}
		}
		assert.Equal(t, TargetCells, bearing)
		assert.Equal(t, TargetCells, g.Count(s.Target))
	}
}

func TestBuildGridSpreadsTarget(t *testing.T) {
	c := testCatalog(t)
	r := rand.New(rand.NewPCG(3, 4))
	cells := map[int]bool{}
	quadrants := map[Quadrant]bool{}
	for i := 0; i < 100; i++ {
		s := StartRound(c, r)
		g := BuildGrid(c, s, r)
		for _, cell := range g.Cells {
			for _, p := range cell.Placements {
				if p.Icon == s.Target {
					cells[cell.Id] = true
					quadrants[p.Quadrant] = true
				}
			}
		}
	}
	assert.Len(t, cells, GridCells)
	assert.Len(t, quadrants, IconsPerCell)
}

func TestResolve(t *testing.T) {
	c := testCatalog(t)
	r := rand.New(rand.NewPCG(5, 6))
	s := StartRound(c, r)
	g := BuildGrid(c, s, r)

	var hitCell, hitQuadrant, missCell int = -1, -1, -1
	for _, cell := range g.Cells {
		for _, p := range cell.Placements {
			if p.Icon == s.Target && hitCell < 0 {
				hitCell, hitQuadrant = cell.Id, int(p.Quadrant)
			}
		}
		if !cell.TargetBearing && missCell < 0 {
			missCell = cell.Id
		}
	}
	require.GreaterOrEqual(t, hitCell, 0)
	require.GreaterOrEqual(t, missCell, 0)

	out, err := g.Resolve(hitCell, Quadrant(hitQuadrant), s.Target)
	require.NoError(t, err)
	assert.Equal(t, HIT, out)
	assert.True(t, g.Cells[hitCell].Resolved)
	assert.True(t, g.Cells[hitCell].Correct)

	_, err = g.Resolve(hitCell, Quadrant(hitQuadrant), s.Target)
	assert.ErrorIs(t, err, ErrResolved)

	out, err = g.Resolve(missCell, TOP_LEFT, s.Target)
	require.NoError(t, err)
	assert.Equal(t, MISS, out)
	assert.False(t, g.Cells[missCell].Correct)

	_, err = g.Resolve(GridCells, TOP_LEFT, s.Target)
	assert.ErrorIs(t, err, ErrNoSuchCell)
	_, err = g.Resolve(-1, TOP_LEFT, s.Target)
	assert.ErrorIs(t, err, ErrNoSuchCell)
	_, err = g.Resolve(0, Quadrant(4), s.Target)
	assert.ErrorIs(t, err, ErrNoSuchQuadrant)
}

func TestQuadrantName(t *testing.T) {
	assert.Equal(t, "TOP_LEFT", TOP_LEFT.Name())
	assert.Equal(t, "BOTTOM_RIGHT", BOTTOM_RIGHT.Name())
	assert.Equal(t, "n/a:9", Quadrant(9).Name())
}
