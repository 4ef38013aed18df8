package model

import (
	"fmt"
)

func NewCatalog(icons []Icon) (*Catalog, error) {
	c := &Catalog{
		icons: make([]Icon, 0, len(icons)),
		index: make(map[string]int),
	}
	for _, icon := range icons {
		if icon.Name == "" {
			return nil, fmt.Errorf("icon without name")
		}
		if icon.Location == "" {
			return nil, fmt.Errorf("icon %q has no location", icon.Name)
		}
		if _, found := c.index[icon.Name]; found {
			return nil, fmt.Errorf("icon %q declared twice", icon.Name)
		}
		c.index[icon.Name] = len(c.icons)
		c.icons = append(c.icons, icon)
	}
	if len(c.icons) < MinCatalogSize {
		return nil, fmt.Errorf("%w: %d icons, need at least %d", ErrCatalogTooSmall, len(c.icons), MinCatalogSize)
	}
	return c, nil
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.icons))
	for i, icon := range c.icons {
		names[i] = icon.Name
	}
	return names
}

func (c *Catalog) Len() int {
	return len(c.icons)
}

func (c *Catalog) Location(name string) (string, bool) {
	i, found := c.index[name]
	if !found {
		return "", false
	}
	return c.icons[i].Location, true
}

func (q Quadrant) Valid() bool {
	return q >= TOP_LEFT && q <= BOTTOM_RIGHT
}

func (q Quadrant) Name() string {
	switch q {
	case TOP_LEFT:
		return "TOP_LEFT"
	case TOP_RIGHT:
		return "TOP_RIGHT"
	case BOTTOM_LEFT:
		return "BOTTOM_LEFT"
	case BOTTOM_RIGHT:
		return "BOTTOM_RIGHT"
	default:
		return fmt.Sprintf("n/a:%d", q)
	}
}

func StartRound(c *Catalog, r Rand) RoundState {
	return RoundState{Target: c.icons[r.IntN(len(c.icons))].Name}
}

func (s RoundState) RecordFind() RoundState {
	if s.Found < WinCount {
		s.Found++
	}
	return s
}

func (s RoundState) Won() bool {
	return s.Found >= WinCount
}

// BuildGrid assigns icons to every quadrant of every cell. Markup is left
// empty, it arrives later from the loader.
func BuildGrid(c *Catalog, s RoundState, r Rand) *Grid {
	bearing := make(map[int]bool, TargetCells)
	for _, i := range r.Perm(GridCells)[:TargetCells] {
		bearing[i] = true
	}

	pool := make([]string, 0, len(c.icons)-1)
	for _, icon := range c.icons {
		if icon.Name != s.Target {
			pool = append(pool, icon.Name)
		}
	}

	g := &Grid{Cells: make([]*Cell, 0, GridCells)}
	for id := 0; id < GridCells; id++ {
		r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		var picks []string
		if bearing[id] {
			picks = append([]string{s.Target}, pool[:IconsPerCell-1]...)
			r.Shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })
		} else {
			picks = append([]string(nil), pool[:IconsPerCell]...)
		}

		cell := &Cell{Id: id, TargetBearing: bearing[id]}
		for i, q := range Quadrants {
			cell.Placements[i] = Placement{Quadrant: q, Icon: picks[i]}
		}
		g.Cells = append(g.Cells, cell)
	}
	return g
}

func (g *Grid) Cell(id int) (*Cell, error) {
	if id < 0 || id >= len(g.Cells) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchCell, id)
	}
	return g.Cells[id], nil
}

// Resolve marks the cell resolved and reports whether the clicked quadrant
// holds the target. A resolved cell never resolves again.
func (g *Grid) Resolve(id int, q Quadrant, target string) (Outcome, error) {
	cell, err := g.Cell(id)
	if err != nil {
		return 0, err
	}
	if !q.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrNoSuchQuadrant, q)
	}
	if cell.Resolved {
		return 0, ErrResolved
	}
	cell.Resolved = true
	if cell.Placements[q].Icon == target {
		cell.Correct = true
		return HIT, nil
	}
	return MISS, nil
}

// Count returns how many cells hold the icon.
func (g *Grid) Count(icon string) int {
	n := 0
	for _, cell := range g.Cells {
		if cell.Has(icon) {
			n++
		}
	}
	return n
}

func (c *Cell) Has(icon string) bool {
	for _, p := range c.Placements {
		if p.Icon == icon {
			return true
		}
	}
	return false
}
