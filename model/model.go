package model

import "errors"

const (
	GridCells    = 21
	TargetCells  = 4
	IconsPerCell = 4
	WinCount     = TargetCells
	// a cell without the target still needs IconsPerCell distinct icons
	MinCatalogSize = IconsPerCell + 1
)

var (
	ErrCatalogTooSmall = errors.New("catalog too small")
	ErrNoSuchCell      = errors.New("no such cell")
	ErrNoSuchQuadrant  = errors.New("no such quadrant")
	ErrResolved        = errors.New("cell already resolved")
)

type Quadrant int

const (
	TOP_LEFT Quadrant = iota
	TOP_RIGHT
	BOTTOM_LEFT
	BOTTOM_RIGHT
)

var Quadrants = [IconsPerCell]Quadrant{TOP_LEFT, TOP_RIGHT, BOTTOM_LEFT, BOTTOM_RIGHT}

// Rand is the part of *rand.Rand (math/rand/v2) the game draws from.
type Rand interface {
	IntN(n int) int
	Perm(n int) []int
	Shuffle(n int, swap func(i, j int))
}

type Icon struct {
	Name     string
	Location string
}

// Catalog maps icon names to asset locations, in declaration order.
type Catalog struct {
	icons []Icon
	index map[string]int
}

type RoundState struct {
	Target string
	Found  int
}

type Placement struct {
	Quadrant Quadrant
	Icon     string
	Markup   string
}

type Cell struct {
	Id            int
	Placements    [IconsPerCell]Placement
	TargetBearing bool
	Resolved      bool
	Correct       bool
}

type Grid struct {
	Cells []*Cell
}

type Outcome int

const (
	HIT Outcome = iota + 1
	MISS
)
