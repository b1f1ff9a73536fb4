// Package game defines the core state types for the epidemic game.
//
// A Simulation is the full board: every region with its population
// compartments and epidemic rates. The state is designed to be cheaply
// clonable so candidate actions can be replayed on throwaway copies.
package game

import (
	"errors"
	"fmt"
)

// ErrRegionNotFound is returned when a lookup by id matches no region.
var ErrRegionNotFound = errors.New("region not found")

// Region is one territory. ID never changes; everything else mutates
// through the rules package, which re-clamps after every change.
type Region struct {
	ID            int
	Healthy       int
	Infected      int
	Dead          int
	InfectionRate int     // healthy -> infected conversions per step
	ContagionRate float64 // [0,1]
	LethalityRate float64 // [0,1]
	MigrationRate float64 // [0,1]
}

// Population is the sum of all three compartments.
func (r Region) Population() int {
	return r.Healthy + r.Infected + r.Dead
}

// Simulation is the complete state needed for rules + search.
// Region order only matters for first-match lookup.
type Simulation struct {
	Regions []Region
}

// NewSimulation copies regions into a fresh Simulation.
func NewSimulation(regions ...Region) *Simulation {
	out := &Simulation{Regions: make([]Region, len(regions))}
	copy(out.Regions, regions)
	return out
}

// Clone performs a deep copy of the simulation.
func (s *Simulation) Clone() *Simulation {
	if s == nil {
		return nil
	}
	out := &Simulation{}
	if len(s.Regions) > 0 {
		out.Regions = make([]Region, len(s.Regions))
		copy(out.Regions, s.Regions)
	}
	return out
}

// Region returns a pointer to the first region with the given id.
// Duplicate ids are not detected.
func (s *Simulation) Region(id int) (*Region, error) {
	for i := range s.Regions {
		if s.Regions[i].ID == id {
			return &s.Regions[i], nil
		}
	}
	return nil, fmt.Errorf("region %d: %w", id, ErrRegionNotFound)
}

// TotalDead sums the dead compartment over every region.
func (s *Simulation) TotalDead() int {
	total := 0
	for _, r := range s.Regions {
		total += r.Dead
	}
	return total
}

// TotalPopulation sums healthy, infected and dead over every region.
func (s *Simulation) TotalPopulation() int {
	total := 0
	for _, r := range s.Regions {
		total += r.Population()
	}
	return total
}
