package rules

import (
	"fmt"

	"github.com/brensch/epidemic/game"
)

const (
	MicrobiologyInfection  = 4
	EpidemiologyContagion  = 0.08
	ImmunologyLethality    = 0.04
	VaccinationInfection   = 1
	VaccinationContagion   = 0.04
	VaccinationLethality   = 0.02
	CureInfected           = 10
	QuarantineInfected     = 30
	BorderMigration        = 0.1
	BioterrorismInfected   = 4
	WeaponizationInfection = 1
	WeaponizationLethality = 0.02
	DisseminationInfection = 1
	DisseminationContagion = 0.02
	PacificationInfection  = 1
	PacificationContagion  = 0.01
	PacificationLethality  = 0.01
)

// ApplyAction mutates sim in place for the action taken by actorID.
// Self actions require the actor to exist; global actions still look the
// actor up so a bad id is always reported.
func ApplyAction(sim *game.Simulation, actorID int, a Action) error {
	if !a.Valid() {
		return &InvalidActionError{Code: byte(a)}
	}
	actor, err := sim.Region(actorID)
	if err != nil {
		return fmt.Errorf("apply %s: %w", a, err)
	}

	switch a {
	case Wait:
	case Microbiology:
		actor.InfectionRate = game.ClampInt(actor.InfectionRate-MicrobiologyInfection, 0)
	case Epidemiology:
		actor.ContagionRate = game.ClampRate(actor.ContagionRate - EpidemiologyContagion)
	case Immunology:
		actor.LethalityRate = game.ClampRate(actor.LethalityRate - ImmunologyLethality)
	case Vaccination:
		actor.InfectionRate = game.ClampInt(actor.InfectionRate-VaccinationInfection, 0)
		actor.ContagionRate = game.ClampRate(actor.ContagionRate - VaccinationContagion)
		actor.LethalityRate = game.ClampRate(actor.LethalityRate - VaccinationLethality)
	case Cure:
		cured := min(actor.Infected, CureInfected)
		actor.Infected -= cured
		actor.Healthy += cured
	case Quarantine:
		// Quarantined population is removed, not moved.
		actor.Infected = game.ClampInt(actor.Infected-QuarantineInfected, 0)
	case OpenBorders:
		actor.MigrationRate = game.ClampRate(actor.MigrationRate + BorderMigration)
	case CloseBorders:
		actor.MigrationRate = game.ClampRate(actor.MigrationRate - BorderMigration)
	case Bioterrorism:
		for i := range sim.Regions {
			r := &sim.Regions[i]
			infected := min(r.Healthy, BioterrorismInfected)
			r.Healthy -= infected
			r.Infected += infected
		}
	case Weaponization:
		for i := range sim.Regions {
			r := &sim.Regions[i]
			r.InfectionRate += WeaponizationInfection
			r.LethalityRate = game.ClampRate(r.LethalityRate + WeaponizationLethality)
		}
	case Dissemination:
		for i := range sim.Regions {
			r := &sim.Regions[i]
			r.InfectionRate += DisseminationInfection
			r.ContagionRate = game.ClampRate(r.ContagionRate + DisseminationContagion)
		}
	case Pacification:
		for i := range sim.Regions {
			r := &sim.Regions[i]
			r.InfectionRate = game.ClampInt(r.InfectionRate-PacificationInfection, 0)
			r.ContagionRate = game.ClampRate(r.ContagionRate - PacificationContagion)
			r.LethalityRate = game.ClampRate(r.LethalityRate - PacificationLethality)
		}
	}
	return nil
}
