// Package controller is a local judge. It hosts a full match between seated
// bots using the reference controller's integer-percent rules, asks each bot
// for its actions every round and reports the outcome.
package controller

import (
	"github.com/brensch/epidemic/protocol"
	"github.com/brensch/epidemic/rules"
)

// Action magnitudes. Rates are whole percent.
const (
	MicrobiologyInfection  = 4
	EpidemiologyContagion  = 8
	ImmunologyLethality    = 4
	VaccinationInfection   = 1
	VaccinationContagion   = 4
	VaccinationLethality   = 2
	CureInfected           = 10
	QuarantineInfected     = 30
	OpenMigration          = 10
	CloseMigration         = 10
	BioterrorismInfected   = 4
	DisseminationInfection = 1
	DisseminationContagion = 2
	WeaponizationInfection = 1
	WeaponizationLethality = 2
	PacificationInfection  = 1
	PacificationContagion  = 1
	PacificationLethality  = 1
)

// State is one region as the judge tracks it.
type State struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Healthy       int    `json:"healthy"`
	Infected      int    `json:"infected"`
	Dead          int    `json:"dead"`
	InfectionRate int    `json:"infection_rate"`
	ContagionRate int    `json:"contagion_rate"`
	LethalityRate int    `json:"lethality_rate"`
	MigrationRate int    `json:"migration_rate"`
}

// Alive reports whether the region still has living population.
func (s State) Alive() bool {
	return s.Healthy+s.Infected > 0
}

func (s State) record() protocol.RegionRecord {
	return protocol.RegionRecord{
		ID:            s.ID,
		Healthy:       s.Healthy,
		Infected:      s.Infected,
		Dead:          s.Dead,
		InfectionRate: s.InfectionRate,
		ContagionRate: s.ContagionRate,
		LethalityRate: s.LethalityRate,
		MigrationRate: s.MigrationRate,
	}
}

// execute applies one action for the region at idx. Codes outside the menu
// are treated as Wait.
func execute(states []State, idx int, a rules.Action) {
	s := &states[idx]
	switch a {
	case rules.Microbiology:
		s.InfectionRate = max(0, s.InfectionRate-MicrobiologyInfection)
	case rules.Epidemiology:
		s.ContagionRate = max(0, s.ContagionRate-EpidemiologyContagion)
	case rules.Immunology:
		s.LethalityRate = max(0, s.LethalityRate-ImmunologyLethality)
	case rules.Vaccination:
		s.InfectionRate = max(0, s.InfectionRate-VaccinationInfection)
		s.ContagionRate = max(0, s.ContagionRate-VaccinationContagion)
		s.LethalityRate = max(0, s.LethalityRate-VaccinationLethality)
	case rules.Cure:
		cured := max(0, min(s.Infected, CureInfected))
		s.Healthy += cured
		s.Infected -= cured
	case rules.Quarantine:
		s.Infected -= max(0, min(s.Infected, QuarantineInfected))
	case rules.OpenBorders:
		s.MigrationRate = min(100, s.MigrationRate+OpenMigration)
	case rules.CloseBorders:
		s.MigrationRate = max(0, s.MigrationRate-CloseMigration)
	case rules.Bioterrorism:
		for i := range states {
			infected := min(states[i].Healthy, BioterrorismInfected)
			states[i].Healthy -= infected
			states[i].Infected += infected
		}
	case rules.Dissemination:
		for i := range states {
			states[i].InfectionRate += DisseminationInfection
			states[i].ContagionRate = min(100, states[i].ContagionRate+DisseminationContagion)
		}
	case rules.Weaponization:
		for i := range states {
			states[i].InfectionRate += WeaponizationInfection
			states[i].LethalityRate = min(100, states[i].LethalityRate+WeaponizationLethality)
		}
	case rules.Pacification:
		for i := range states {
			states[i].InfectionRate = max(0, states[i].InfectionRate-PacificationInfection)
			states[i].ContagionRate = max(0, states[i].ContagionRate-PacificationContagion)
			states[i].LethalityRate = max(0, states[i].LethalityRate-PacificationLethality)
		}
	}
}
