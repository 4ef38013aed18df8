package server

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/zucenko/iconhunt/assets"
	"github.com/zucenko/iconhunt/model"
	"github.com/zucenko/iconhunt/render"
)

const (
	congratulations = "Congratulations! You've finished!"
)

func promptText(target string) string {
	return fmt.Sprintf("Click on the %s", target)
}

func correctText(found int) string {
	return fmt.Sprintf("Correct! %d out of %d objects selected.", found, model.WinCount)
}

func incorrectText(target string) string {
	return fmt.Sprintf("Incorrect! The correct object is a %s. Try again!", target)
}

// Presenter is the surface a Game talks to. Calls come from the session loop
// only.
type Presenter interface {
	ShowMessage(text string)
	ShowPrompt(text string)
	ShowFinishAffordance(visible bool)
	ShowGrid(generation int, cells []string)
	ShowIcon(generation, cell int, q model.Quadrant, markup string)
	ShowResolved(generation, cell int, correct bool)
	ShowCongratulations(text string)
}

type IconLoader interface {
	Fetch(ctx context.Context, name string) string
}

// IconLoaded is the result of one quadrant fetch.
type IconLoaded struct {
	Generation int
	Cell       int
	Quadrant   model.Quadrant
	Markup     string
}

// Game holds one player's rounds. It is not safe for concurrent use; the
// owning session loop serialises every call, fetch results come back through
// Loaded.
type Game struct {
	Catalog   *model.Catalog
	Rand      model.Rand
	Loader    IconLoader
	Presenter Presenter
	Loaded    chan<- IconLoaded

	Round      model.RoundState
	Grid       *model.Grid
	Generation int
}

type ClickResult int

const (
	CLICK_IGNORED ClickResult = iota
	CLICK_CORRECT
	CLICK_WON
	CLICK_MISSED
)

func (r ClickResult) Name() string {
	switch r {
	case CLICK_IGNORED:
		return "IGNORED"
	case CLICK_CORRECT:
		return "CORRECT"
	case CLICK_WON:
		return "WON"
	case CLICK_MISSED:
		return "MISSED"
	default:
		return fmt.Sprintf("n/a:%d", r)
	}
}

// NewRound throws the current grid away, picks a new target and starts the
// quadrant fetches of the new grid.
func (g *Game) NewRound(ctx context.Context) {
	g.Generation++
	g.Round = model.StartRound(g.Catalog, g.Rand)
	g.Grid = model.BuildGrid(g.Catalog, g.Round, g.Rand)
	log.WithFields(log.Fields{"generation": g.Generation, "target": g.Round.Target}).Debug("Game.NewRound")

	g.Presenter.ShowFinishAffordance(false)
	g.Presenter.ShowPrompt(promptText(g.Round.Target))

	cells := make([]string, len(g.Grid.Cells))
	for i, cell := range g.Grid.Cells {
		cells[i] = render.Cell(cell.Id)
	}
	g.Presenter.ShowGrid(g.Generation, cells)

	for _, cell := range g.Grid.Cells {
		for _, p := range cell.Placements {
			g.fetch(ctx, g.Generation, cell.Id, p.Quadrant, p.Icon)
		}
	}
}

func (g *Game) fetch(ctx context.Context, generation, cell int, q model.Quadrant, icon string) {
	loader, loaded := g.Loader, g.Loaded
	go func() {
		markup, err := render.Icon(loader.Fetch(ctx, icon))
		if err != nil {
			log.WithField("icon", icon).Warnf("Game.fetch %v", err)
			markup, _ = render.Icon(assets.Placeholder)
		}
		select {
		case loaded <- IconLoaded{Generation: generation, Cell: cell, Quadrant: q, Markup: markup}:
		case <-ctx.Done():
		}
	}()
}

// PlaceIcon places fetched markup. Results of a discarded grid are dropped.
func (g *Game) PlaceIcon(ev IconLoaded) bool {
	if ev.Generation != g.Generation || g.Grid == nil {
		return false
	}
	cell, err := g.Grid.Cell(ev.Cell)
	if err != nil || !ev.Quadrant.Valid() {
		return false
	}
	cell.Placements[ev.Quadrant].Markup = ev.Markup
	g.Presenter.ShowIcon(ev.Generation, ev.Cell, ev.Quadrant, ev.Markup)
	return true
}

func (g *Game) Click(ctx context.Context, generation, cell int, q model.Quadrant) ClickResult {
	if g.Grid == nil || generation != g.Generation {
		log.Debugf("Game.Click stale generation %d, current %d", generation, g.Generation)
		return CLICK_IGNORED
	}
	if g.Round.Won() {
		return CLICK_IGNORED
	}
	outcome, err := g.Grid.Resolve(cell, q, g.Round.Target)
	switch {
	case errors.Is(err, model.ErrResolved):
		return CLICK_IGNORED
	case err != nil:
		log.Warnf("Game.Click %v", err)
		return CLICK_IGNORED
	}

	if outcome == model.HIT {
		g.Round = g.Round.RecordFind()
		g.Presenter.ShowResolved(generation, cell, true)
		g.Presenter.ShowMessage(correctText(g.Round.Found))
		if g.Round.Won() {
			g.Presenter.ShowFinishAffordance(true)
			return CLICK_WON
		}
		return CLICK_CORRECT
	}

	g.Presenter.ShowResolved(generation, cell, false)
	g.Presenter.ShowMessage(incorrectText(g.Round.Target))
	g.NewRound(ctx)
	return CLICK_MISSED
}

// Finish acknowledges a won round and starts the next one.
func (g *Game) Finish(ctx context.Context) bool {
	if !g.Round.Won() {
		return false
	}
	g.Presenter.ShowCongratulations(congratulations)
	g.NewRound(ctx)
	return true
}
