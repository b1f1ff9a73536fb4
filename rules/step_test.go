package rules

import (
	"math/rand"
	"testing"

	"github.com/brensch/epidemic/game"
)

func TestStep_SingleRegionInfection(t *testing.T) {
	before := game.NewSimulation(game.Region{ID: 1, Healthy: 100, InfectionRate: 5})
	sim := before.Clone()
	Step(sim)
	logTransition(t, "single region step", before, "Step", sim)

	r := sim.Regions[0]
	if r.Healthy != 95 || r.Infected != 5 || r.Dead != 0 {
		t.Fatalf("H/I/D=%d/%d/%d want=95/5/0", r.Healthy, r.Infected, r.Dead)
	}
}

func TestStep_PhaseOrder(t *testing.T) {
	// Contagion must see the infected count produced by infection, and
	// extinction the count produced by contagion.
	sim := game.NewSimulation(game.Region{ID: 1, Healthy: 100, InfectionRate: 10, ContagionRate: 0.5, LethalityRate: 0.5})
	Step(sim)
	r := sim.Regions[0]
	if r.Healthy != 85 || r.Infected != 8 || r.Dead != 7 {
		t.Fatalf("H/I/D=%d/%d/%d want=85/8/7", r.Healthy, r.Infected, r.Dead)
	}
}

// SUSPECTED DEFECT: migration multiplies infected by the post-migration
// stay-at-home count instead of removing emigrants. These tests pin the
// current behaviour; the agent's search scores depend on it.
func TestMigration_MultiplicativeInfectedUpdate(t *testing.T) {
	before := game.NewSimulation(
		game.Region{ID: 1, Healthy: 100, Infected: 10, MigrationRate: 0.5},
		game.Region{ID: 2, Healthy: 50, Infected: 0, MigrationRate: 0},
	)
	sim := before.Clone()
	Migration(sim)
	logTransition(t, "migration", before, "Migration", sim)

	a, b := sim.Regions[0], sim.Regions[1]
	// A: healthy 100 -> 50 stay, +50 from the pool; infected 10*25 +5 from the pool.
	if a.Healthy != 100 || a.Infected != 255 {
		t.Fatalf("region 1 H/I=%d/%d want=100/255", a.Healthy, a.Infected)
	}
	// B: rate 0, receives nothing; infected 0*50 stays 0.
	if b.Healthy != 50 || b.Infected != 0 {
		t.Fatalf("region 2 H/I=%d/%d want=50/0", b.Healthy, b.Infected)
	}
	if sim.TotalPopulation() == before.TotalPopulation() {
		t.Fatalf("expected migration to break conservation under the current update")
	}
}

// SUSPECTED DEFECT: with a zero migration rate nothing moves, yet infected is
// still multiplied by the healthy count.
func TestMigration_ZeroRateStillMultiplies(t *testing.T) {
	sim := game.NewSimulation(game.Region{ID: 1, Healthy: 20, Infected: 3})
	Migration(sim)
	r := sim.Regions[0]
	if r.Healthy != 20 || r.Infected != 60 {
		t.Fatalf("H/I=%d/%d want=20/60", r.Healthy, r.Infected)
	}
}

func TestMigration_NoWeightSkipsRedistribution(t *testing.T) {
	sim := game.NewSimulation(
		game.Region{ID: 1, Healthy: 10, Infected: 0},
		game.Region{ID: 2, Healthy: 30, Infected: 0},
	)
	Migration(sim)
	if sim.Regions[0].Healthy != 10 || sim.Regions[1].Healthy != 30 {
		t.Fatalf("healthy changed without migration: %s", dumpState(sim))
	}
}

func TestMigration_TruncatesTowardZero(t *testing.T) {
	sim := game.NewSimulation(
		game.Region{ID: 1, Healthy: 9, MigrationRate: 0.5},
		game.Region{ID: 2, Healthy: 0, MigrationRate: 0.5},
	)
	Migration(sim)
	// 9*0.5 = 4.5 emigrate -> 4 pooled; 9*0.5 = 4.5 stay -> 4; each side receives trunc(4*0.5/1) = 2.
	if sim.Regions[0].Healthy != 6 || sim.Regions[1].Healthy != 2 {
		t.Fatalf("healthy=%d/%d want=6/2", sim.Regions[0].Healthy, sim.Regions[1].Healthy)
	}
}

func TestPhases_ConservePopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	phases := []struct {
		name string
		fn   func(*game.Simulation)
	}{
		{"infection", Infection},
		{"contagion", Contagion},
		{"extinction", Extinction},
	}
	for trial := 0; trial < 100; trial++ {
		sim := randomSimulation(rng, 5)
		for _, p := range phases {
			before := sim.TotalPopulation()
			p.fn(sim)
			if after := sim.TotalPopulation(); after != before {
				t.Fatalf("%s changed total population %d -> %d", p.name, before, after)
			}
		}
	}
}

func TestStep_NonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		sim := randomSimulation(rng, 1+rng.Intn(6))
		before := sim.Clone()
		Step(sim)
		for _, r := range sim.Regions {
			if r.Healthy < 0 || r.Infected < 0 || r.Dead < 0 {
				logTransition(t, "negative population", before, "Step", sim)
				t.FailNow()
			}
		}
	}
}

func TestExtinction_Truncates(t *testing.T) {
	sim := game.NewSimulation(game.Region{ID: 1, Infected: 9, LethalityRate: 0.25})
	Extinction(sim)
	if sim.Regions[0].Dead != 2 || sim.Regions[0].Infected != 7 {
		t.Fatalf("I/D=%d/%d want=7/2", sim.Regions[0].Infected, sim.Regions[0].Dead)
	}
}
