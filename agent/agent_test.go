package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/brensch/epidemic/game"
	"github.com/brensch/epidemic/protocol"
	"github.com/brensch/epidemic/rules"
	"github.com/brensch/epidemic/search"
)

func TestRespond_SentinelRound(t *testing.T) {
	a := New(search.Config{}, false)
	got, err := a.Respond(context.Background(), "50;1;1_99_1_0_2_5_10_5")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got != protocol.SentinelResponse {
		t.Fatalf("got %q want %q", got, protocol.SentinelResponse)
	}
}

func TestRespond_SentinelIgnoresMissingActor(t *testing.T) {
	got, err := New(search.Config{}, false).Respond(context.Background(), "50;9")
	if err != nil || got != protocol.SentinelResponse {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestPlay_LethalityOverridesChain(t *testing.T) {
	// Lethality 10% -> Immunology (6%) -> Immunology (just above 2% after
	// float drift) -> Immunology again, clamped to 0.
	req, err := protocol.ParseRequest("3;1;1_99_1_0_2_5_10_5;2_99_1_0_2_5_10_5")
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	turn, err := New(search.Config{}, false).Play(context.Background(), req)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if turn.Response != "III" {
		t.Fatalf("response=%q want III", turn.Response)
	}

	// The live simulation carries all three actions.
	me, _ := req.Simulation.Region(1)
	if me.LethalityRate != 0 || me.InfectionRate != 2 {
		t.Fatalf("live region not updated: %+v", *me)
	}
	other, _ := req.Simulation.Region(2)
	if other.LethalityRate != 0.1 {
		t.Fatalf("other region touched: %+v", *other)
	}
}

func TestPlay_SearchesWhenLethalityIsZero(t *testing.T) {
	req := &protocol.Request{
		Round:      4,
		PlayerID:   1,
		Simulation: game.NewSimulation(game.Region{ID: 1, Healthy: 100, Infected: 10}),
	}
	turn, err := New(search.Config{}, false).Play(context.Background(), req)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	// Weaponization raises the actor's lethality to 2%, which forces
	// Vaccination; that brings lethality back to 0 and search picks
	// Weaponization again.
	if turn.Response != "WVW" {
		t.Fatalf("response=%q want WVW", turn.Response)
	}
	if len(turn.Decisions) != 3 || turn.Decisions[0].Override || !turn.Decisions[1].Override || turn.Decisions[2].Override {
		t.Fatalf("decisions=%+v", turn.Decisions)
	}
	if turn.Actions[0] != rules.Weaponization {
		t.Fatalf("first action=%s", turn.Actions[0])
	}
}

func TestRespond_MissingActor(t *testing.T) {
	_, err := New(search.Config{}, false).Respond(context.Background(), "4;7;1_99_1_0_2_5_10_5")
	if !errors.Is(err, game.ErrRegionNotFound) {
		t.Fatalf("err=%v want ErrRegionNotFound", err)
	}
}

func TestRespond_Malformed(t *testing.T) {
	_, err := New(search.Config{}, false).Respond(context.Background(), "4;x")
	if !errors.Is(err, protocol.ErrMalformedRequest) {
		t.Fatalf("err=%v want ErrMalformedRequest", err)
	}
}
