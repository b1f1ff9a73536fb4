package rules

import "github.com/brensch/epidemic/game"

// Step advances the simulation by one time unit. The phase order matters:
// each phase reads the counts left by the previous one.
func Step(sim *game.Simulation) {
	Migration(sim)
	Infection(sim)
	Contagion(sim)
	Extinction(sim)
}

// Migration moves a share of every region's population into a common pool
// and redistributes the pool in proportion to migration rate.
//
// The infected update multiplies rather than subtracts. That is almost
// certainly a defect in the scoring model the agent was tuned against, but
// search results depend on it, so it is reproduced as-is.
func Migration(sim *game.Simulation) {
	var migratingHealthy, migratingInfected int
	var totalWeight float64

	for i := range sim.Regions {
		r := &sim.Regions[i]
		migratingHealthy += game.Trunc(float64(r.Healthy) * r.MigrationRate)
		migratingInfected += game.Trunc(float64(r.Infected) * r.MigrationRate)
		totalWeight += r.MigrationRate

		r.Healthy = game.Trunc(float64(r.Healthy) * (1 - r.MigrationRate))
		r.Infected *= game.Trunc(float64(r.Healthy) * (1 - r.MigrationRate))
	}

	// Nobody emigrates, nobody immigrates.
	if totalWeight == 0 {
		return
	}

	for i := range sim.Regions {
		r := &sim.Regions[i]
		r.Healthy += game.Trunc(float64(migratingHealthy) * r.MigrationRate / totalWeight)
		r.Infected += game.Trunc(float64(migratingInfected) * r.MigrationRate / totalWeight)
	}
}

// Infection converts up to InfectionRate healthy individuals per region.
func Infection(sim *game.Simulation) {
	for i := range sim.Regions {
		r := &sim.Regions[i]
		infected := min(r.Healthy, r.InfectionRate)
		r.Healthy -= infected
		r.Infected += infected
	}
}

// Contagion converts healthy individuals in proportion to the infected count.
func Contagion(sim *game.Simulation) {
	for i := range sim.Regions {
		r := &sim.Regions[i]
		infected := min(r.Healthy, game.Trunc(float64(r.Infected)*r.ContagionRate))
		r.Healthy -= infected
		r.Infected += infected
	}
}

// Extinction kills a share of every region's infected.
func Extinction(sim *game.Simulation) {
	for i := range sim.Regions {
		r := &sim.Regions[i]
		killed := game.Trunc(float64(r.Infected) * r.LethalityRate)
		r.Infected -= killed
		r.Dead += killed
	}
}
