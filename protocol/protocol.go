// Package protocol converts between the judge's request string and game state.
//
// A request is ';'-separated: round, the receiving player's id, then one
// record per region. Each record is '_'-separated:
//
//	id_healthy_infected_dead_infectionRate_contagion%_lethality%_migration%
//
// The three trailing rates travel as percentages.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/brensch/epidemic/game"
	"github.com/brensch/epidemic/rules"
)

const (
	// SentinelRound short-circuits the agent to SentinelResponse.
	SentinelRound    = 50
	SentinelResponse = "TTT"

	// ActionsPerTurn is how many action codes the judge reads from a response.
	ActionsPerTurn = 3

	recordFields = 8
)

// ErrMalformedRequest is wrapped by every parse failure.
var ErrMalformedRequest = errors.New("malformed request")

// Request is a decoded judge request.
type Request struct {
	Round      int
	PlayerID   int
	Simulation *game.Simulation
}

// ParseRequest decodes a judge request.
func ParseRequest(arg string) (*Request, error) {
	fields := strings.Split(strings.TrimSpace(arg), ";")
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: want at least round and player id, got %d fields", ErrMalformedRequest, len(fields))
	}

	round, err := parseInt(fields[0], "round")
	if err != nil {
		return nil, err
	}
	playerID, err := parseInt(fields[1], "player id")
	if err != nil {
		return nil, err
	}

	sim := &game.Simulation{Regions: make([]game.Region, 0, len(fields)-2)}
	for i, rec := range fields[2:] {
		r, err := parseRegion(rec)
		if err != nil {
			return nil, fmt.Errorf("region record %d: %w", i, err)
		}
		sim.Regions = append(sim.Regions, r)
	}

	return &Request{Round: round, PlayerID: playerID, Simulation: sim}, nil
}

func parseRegion(rec string) (game.Region, error) {
	data := strings.Split(rec, "_")
	if len(data) != recordFields {
		return game.Region{}, fmt.Errorf("%w: record %q has %d fields, want %d", ErrMalformedRequest, rec, len(data), recordFields)
	}

	var ints [5]int
	names := [5]string{"id", "healthy", "infected", "dead", "infection rate"}
	for i := range ints {
		v, err := parseInt(data[i], names[i])
		if err != nil {
			return game.Region{}, err
		}
		ints[i] = v
	}

	var rates [3]float64
	rateNames := [3]string{"contagion rate", "lethality rate", "migration rate"}
	for i := range rates {
		v, err := strconv.ParseFloat(data[5+i], 64)
		if err != nil {
			return game.Region{}, fmt.Errorf("%w: %s %q: %v", ErrMalformedRequest, rateNames[i], data[5+i], err)
		}
		rates[i] = v / 100
	}

	return game.Region{
		ID:            ints[0],
		Healthy:       ints[1],
		Infected:      ints[2],
		Dead:          ints[3],
		InfectionRate: ints[4],
		ContagionRate: rates[0],
		LethalityRate: rates[1],
		MigrationRate: rates[2],
	}, nil
}

func parseInt(s, name string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrMalformedRequest, name, s, err)
	}
	return v, nil
}

// RegionRecord is one region as the judge sends it, rates in whole percent.
type RegionRecord struct {
	ID            int
	Healthy       int
	Infected      int
	Dead          int
	InfectionRate int
	ContagionRate int
	LethalityRate int
	MigrationRate int
}

// EncodeRequest builds the request string the judge hands to a player.
func EncodeRequest(round, playerID int, regions []RegionRecord) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(round))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(playerID))
	for _, r := range regions {
		fmt.Fprintf(&b, ";%d_%d_%d_%d_%d_%d_%d_%d",
			r.ID, r.Healthy, r.Infected, r.Dead, r.InfectionRate, r.ContagionRate, r.LethalityRate, r.MigrationRate)
	}
	return b.String()
}

// EncodeActions renders actions as a response with no separator.
func EncodeActions(actions []rules.Action) string {
	out := make([]byte, len(actions))
	for i, a := range actions {
		out[i] = a.Code()
	}
	return string(out)
}
