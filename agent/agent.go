// Package agent is the per-round driver: it decodes the judge request, lets
// the search pick an action three times against the live simulation and
// returns the response string.
package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/brensch/epidemic/game"
	"github.com/brensch/epidemic/protocol"
	"github.com/brensch/epidemic/rules"
	"github.com/brensch/epidemic/search"
)

// Turn records one round's answer.
type Turn struct {
	Round     int
	Sentinel  bool
	Actions   []rules.Action
	Decisions []search.Decision
	Response  string
}

// Agent answers judge requests.
type Agent struct {
	Chooser *search.Chooser
	Verbose bool
}

// New returns an Agent searching with cfg.
func New(cfg search.Config, verbose bool) *Agent {
	return &Agent{Chooser: search.NewChooser(cfg), Verbose: verbose}
}

// Respond decodes a raw request and plays it.
func (a *Agent) Respond(ctx context.Context, request string) (string, error) {
	req, err := protocol.ParseRequest(request)
	if err != nil {
		return "", err
	}
	turn, err := a.Play(ctx, req)
	if err != nil {
		return "", err
	}
	return turn.Response, nil
}

// Play runs the sub-turns for one round. req.Simulation is the live state
// and is mutated by every chosen action so later sub-turns see earlier ones.
func (a *Agent) Play(ctx context.Context, req *protocol.Request) (Turn, error) {
	turn := Turn{Round: req.Round}
	if req.Round == protocol.SentinelRound {
		turn.Sentinel = true
		turn.Response = protocol.SentinelResponse
		return turn, nil
	}

	live := req.Simulation
	if live == nil {
		live = &game.Simulation{}
	}
	chooser := a.Chooser
	if chooser == nil {
		chooser = search.NewChooser(search.Config{})
	}

	for i := 0; i < protocol.ActionsPerTurn; i++ {
		d, err := chooser.Decide(ctx, live, req.PlayerID)
		if err != nil {
			return Turn{}, fmt.Errorf("round %d sub-turn %d: %w", req.Round, i, err)
		}
		if err := rules.ApplyAction(live, req.PlayerID, d.Action); err != nil {
			return Turn{}, fmt.Errorf("round %d sub-turn %d: %w", req.Round, i, err)
		}
		if a.Verbose {
			if d.Override {
				log.Printf("Round %d.%d: %s (lethality override)", req.Round, i, d.Action)
			} else {
				log.Printf("Round %d.%d: %s %v", req.Round, i, d.Action, d.Candidates)
			}
		}
		turn.Actions = append(turn.Actions, d.Action)
		turn.Decisions = append(turn.Decisions, d)
	}
	turn.Response = protocol.EncodeActions(turn.Actions)
	return turn, nil
}
