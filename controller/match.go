package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/epidemic/config"
	"github.com/brensch/epidemic/protocol"
	"github.com/brensch/epidemic/rules"
)

// ErrShortResponse is returned when a bot answers with fewer than three codes.
var ErrShortResponse = errors.New("invalid response length")

// Bot answers one judge request per round.
type Bot interface {
	Respond(ctx context.Context, request string) (string, error)
}

// Seat binds a bot to a display name.
type Seat struct {
	Name string
	Bot  Bot
}

// Frame is the match state at the end of a round.
type Frame struct {
	MatchID   string         `json:"match_id"`
	Round     int            `json:"round"`
	Mutation  string         `json:"mutation,omitempty"`
	States    []State        `json:"states"`
	Responses map[int]string `json:"responses,omitempty"`
	Errors    map[int]string `json:"errors,omitempty"`
	Final     bool           `json:"final,omitempty"`
}

// Score is one player's final standing.
type Score struct {
	Rank     int    `json:"rank"`
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Healthy  int    `json:"healthy"`
	Infected int    `json:"infected"`
	Dead     int    `json:"dead"`
}

// Result summarises a finished match.
type Result struct {
	MatchID string
	Rounds  int
	Scores  []Score
}

// Match runs one game between seated bots.
type Match struct {
	ID string

	cfg       config.Match
	rng       *rand.Rand
	states    []State
	bots      map[int]Bot
	round     int
	observers []func(Frame)
}

// NewMatch seats the bots. Player ids follow seat order; the seating order
// used for turns is shuffled when cfg.Shuffle is set.
func NewMatch(cfg config.Match, seats []Seat) (*Match, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("need at least 2 seats, got %d", len(seats))
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := &Match{
		ID:   uuid.NewString(),
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(seed)),
		bots: make(map[int]Bot, len(seats)),
	}
	for i, seat := range seats {
		if seat.Bot == nil {
			return nil, fmt.Errorf("seat %d (%s) has no bot", i, seat.Name)
		}
		m.bots[i] = seat.Bot
		m.states = append(m.states, State{
			ID:            i,
			Name:          seat.Name,
			Healthy:       cfg.Start.Healthy,
			Infected:      cfg.Start.Infected,
			Dead:          cfg.Start.Dead,
			InfectionRate: cfg.Start.InfectionRate,
			ContagionRate: cfg.Start.ContagionRate,
			LethalityRate: cfg.Start.LethalityRate,
			MigrationRate: cfg.Start.MigrationRate,
		})
	}
	if cfg.Shuffle {
		m.rng.Shuffle(len(m.states), func(i, j int) {
			m.states[i], m.states[j] = m.states[j], m.states[i]
		})
	}
	return m, nil
}

// Observe registers fn to receive a Frame after every round.
func (m *Match) Observe(fn func(Frame)) {
	m.observers = append(m.observers, fn)
}

// States returns a copy of the current region states in seating order.
func (m *Match) States() []State {
	return append([]State(nil), m.states...)
}

// Round is the last round started.
func (m *Match) Round() int { return m.round }

// Run plays rounds until the configured limit or until at most one region
// is alive.
func (m *Match) Run(ctx context.Context) (Result, error) {
	for m.round < m.cfg.Rounds {
		if err := ctx.Err(); err != nil {
			return m.result(), err
		}
		if !m.PlayRound(ctx) {
			break
		}
	}
	m.emit(Frame{Round: m.round, Final: true})
	return m.result(), nil
}

// PlayRound runs the next round's phases and player turns. It returns false
// once the match is over.
func (m *Match) PlayRound(ctx context.Context) bool {
	m.round++
	frame := Frame{Round: m.round, Responses: map[int]string{}, Errors: map[int]string{}}
	defer func() { m.emit(frame) }()

	phases := []func(){
		func() { frame.Mutation = mutate(m.states, m.rng, m.cfg.Mutation) },
		func() { reproduce(m.states, m.round, m.cfg.BirthRound) },
		func() { migrate(m.states) },
		func() { infect(m.states) },
		func() { spread(m.states) },
		func() { kill(m.states) },
	}
	for _, phase := range phases {
		if m.onePlayerLeft() {
			return false
		}
		phase()
	}

	if m.onePlayerLeft() {
		return false
	}
	for i := range m.states {
		if !m.states[i].Alive() {
			continue
		}
		id := m.states[i].ID
		response, err := m.turn(ctx, i)
		if err != nil {
			log.Printf("Round %d: %s (%d) forfeits: %v", m.round, m.states[i].Name, id, err)
			frame.Errors[id] = err.Error()
		} else {
			frame.Responses[id] = response
		}
		if m.onePlayerLeft() {
			return false
		}
	}
	return true
}

func (m *Match) turn(ctx context.Context, idx int) (string, error) {
	id := m.states[idx].ID
	records := make([]protocol.RegionRecord, len(m.states))
	for i, s := range m.states {
		records[i] = s.record()
	}
	request := protocol.EncodeRequest(m.round, id, records)

	moveCtx, cancel := context.WithTimeout(ctx, m.cfg.MoveTimeout)
	defer cancel()
	response, err := m.bots[id].Respond(moveCtx, request)
	if err != nil {
		return "", err
	}
	if len(response) < protocol.ActionsPerTurn {
		return response, fmt.Errorf("%w: %d", ErrShortResponse, len(response))
	}

	for i := 0; i < protocol.ActionsPerTurn; i++ {
		execute(m.states, idx, rules.Action(response[i]))
	}
	return response[:protocol.ActionsPerTurn], nil
}

func (m *Match) onePlayerLeft() bool {
	alive := 0
	for _, s := range m.states {
		if s.Alive() {
			alive++
		}
	}
	return alive <= 1
}

func (m *Match) emit(f Frame) {
	f.MatchID = m.ID
	f.States = m.States()
	for _, fn := range m.observers {
		fn(f)
	}
}

func (m *Match) result() Result {
	return Result{MatchID: m.ID, Rounds: m.round, Scores: Scoreboard(m.states)}
}

// Scoreboard ranks regions by healthy population, then infected, then
// fewest dead.
func Scoreboard(states []State) []Score {
	scores := make([]Score, len(states))
	for i, s := range states {
		scores[i] = Score{ID: s.ID, Name: s.Name, Healthy: s.Healthy, Infected: s.Infected, Dead: s.Dead}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Healthy != b.Healthy {
			return a.Healthy > b.Healthy
		}
		if a.Infected != b.Infected {
			return a.Infected > b.Infected
		}
		if a.Dead != b.Dead {
			return a.Dead < b.Dead
		}
		return a.ID < b.ID
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}
