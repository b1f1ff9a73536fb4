// Package search picks the agent's action by replaying every candidate on a
// throwaway copy of the simulation and reading the outcome off the copy.
package search

import (
	"fmt"

	"github.com/brensch/epidemic/game"
	"github.com/brensch/epidemic/rules"
)

// ScoreAction returns the total dead across all regions after the actor
// plays a and the simulation advances one step. sim is never modified.
func ScoreAction(sim *game.Simulation, a rules.Action, actorID int) (int, error) {
	projected, err := Project(sim, a, actorID)
	if err != nil {
		return 0, err
	}
	return projected.TotalDead(), nil
}

// Project returns the independent copy used for scoring.
func Project(sim *game.Simulation, a rules.Action, actorID int) (*game.Simulation, error) {
	cp := sim.Clone()
	if err := rules.ApplyAction(cp, actorID, a); err != nil {
		return nil, fmt.Errorf("score %s: %w", a, err)
	}
	rules.Step(cp)
	return cp, nil
}
