package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/brensch/epidemic/game"
	"github.com/brensch/epidemic/rules"
)

const (
	// Above this lethality the actor always plays Immunology.
	LethalityImmunologyThreshold = 0.02
)

// Config holds selector configuration.
type Config struct {
	// Workers > 1 scores candidates concurrently. Results are identical to
	// the sequential path.
	Workers int
}

// Candidate is one scored action.
type Candidate struct {
	Action rules.Action
	Score  int
}

// Decision is the chosen action plus what it took to choose it.
type Decision struct {
	Action     rules.Action
	Override   bool        // chosen by a lethality rule without search
	Candidates []Candidate // menu order; empty on override
}

// Chooser holds the search context.
type Chooser struct {
	Config Config
	Menu   []rules.Action
}

// NewChooser returns a Chooser over the full action menu.
func NewChooser(cfg Config) *Chooser {
	return &Chooser{Config: cfg, Menu: rules.Menu}
}

// ChooseAction returns the action the actor should play next.
func (c *Chooser) ChooseAction(ctx context.Context, sim *game.Simulation, actorID int) (rules.Action, error) {
	d, err := c.Decide(ctx, sim, actorID)
	if err != nil {
		return 0, err
	}
	return d.Action, nil
}

// Decide runs the override rules and, failing those, scores the whole menu
// and keeps the candidate with the highest score. The score is total dead,
// so this picks the deadliest projection; ties go to the earliest menu entry.
func (c *Chooser) Decide(ctx context.Context, sim *game.Simulation, actorID int) (Decision, error) {
	actor, err := sim.Region(actorID)
	if err != nil {
		return Decision{}, fmt.Errorf("choose action: %w", err)
	}

	if actor.LethalityRate > LethalityImmunologyThreshold {
		return Decision{Action: rules.Immunology, Override: true}, nil
	} else if actor.LethalityRate > 0 {
		return Decision{Action: rules.Vaccination, Override: true}, nil
	}

	menu := c.Menu
	if len(menu) == 0 {
		menu = rules.Menu
	}
	scores, err := c.scoreAll(ctx, sim, actorID, menu)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{Candidates: make([]Candidate, len(menu))}
	best := -1
	for i, a := range menu {
		d.Candidates[i] = Candidate{Action: a, Score: scores[i]}
		if best < 0 || scores[i] > scores[best] {
			best = i
		}
	}
	d.Action = menu[best]
	return d, nil
}

func (c *Chooser) scoreAll(ctx context.Context, sim *game.Simulation, actorID int, menu []rules.Action) ([]int, error) {
	scores := make([]int, len(menu))

	if c.Config.Workers <= 1 {
		for i, a := range menu {
			if ctx != nil {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				default:
				}
			}
			s, err := ScoreAction(sim, a, actorID)
			if err != nil {
				return nil, err
			}
			scores[i] = s
		}
		return scores, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Config.Workers)
	for i, a := range menu {
		i, a := i, a
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := ScoreAction(sim, a, actorID)
			if err != nil {
				return err
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
