package controller

import (
	"math/rand"

	"github.com/brensch/epidemic/config"
)

// Mutation kinds, as reported in frames.
const (
	MutationInfection = "infection"
	MutationContagion = "contagion"
	MutationLethality = "lethality"
)

func mutate(states []State, rng *rand.Rand, m config.Mutation) string {
	kind := rng.Intn(3)
	for i := range states {
		s := &states[i]
		switch kind {
		case 0:
			s.InfectionRate += m.Infection
		case 1:
			s.ContagionRate = min(100, s.ContagionRate+m.Contagion)
		case 2:
			s.LethalityRate = min(100, s.LethalityRate+m.Lethality)
		}
	}
	return [...]string{MutationInfection, MutationContagion, MutationLethality}[kind]
}

func reproduce(states []State, round, birthRound int) {
	if round%birthRound != 0 {
		return
	}
	for i := range states {
		states[i].Healthy += states[i].Healthy / 2
		states[i].Infected += states[i].Infected / 2
	}
}

// migrate pools emigrants from every region and hands them back in
// proportion to each region's share of the total migration rate. Infected
// emigrants are capped by the healthy count, as in the reference judge.
func migrate(states []State) {
	var pooledHealthy, pooledInfected, weight int

	for i := range states {
		s := &states[i]
		outHealthy := min(s.Healthy, s.Healthy*s.MigrationRate/100)
		outInfected := min(s.Healthy, s.Infected*s.MigrationRate/100)

		s.Healthy -= outHealthy
		s.Infected -= outInfected

		pooledHealthy += outHealthy
		pooledInfected += outInfected
		weight += s.MigrationRate
	}

	if weight == 0 {
		return
	}

	for i := range states {
		s := &states[i]
		ratio := s.MigrationRate * 100 / weight
		s.Healthy += pooledHealthy * ratio / 100
		s.Infected += pooledInfected * ratio / 100
	}
}

func infect(states []State) {
	for i := range states {
		s := &states[i]
		n := min(s.Healthy, s.InfectionRate)
		s.Healthy -= n
		s.Infected += n
	}
}

func spread(states []State) {
	for i := range states {
		s := &states[i]
		n := min(s.Healthy, s.Infected*s.ContagionRate/100)
		s.Healthy -= n
		s.Infected += n
	}
}

func kill(states []State) {
	for i := range states {
		s := &states[i]
		n := min(s.Infected, s.Infected*s.LethalityRate/100)
		s.Infected -= n
		s.Dead += n
	}
}
