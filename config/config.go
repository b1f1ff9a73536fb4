// Package config loads judge match settings. Defaults reproduce the
// reference controller; a YAML file overrides them and JUDGE_* environment
// variables override the file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	KindAgent   = "agent"
	KindScript  = "script"
	KindCommand = "command"
)

// Start is the state every region begins the match with. Rates are whole percent.
type Start struct {
	Healthy       int `yaml:"healthy"`
	Infected      int `yaml:"infected"`
	Dead          int `yaml:"dead"`
	InfectionRate int `yaml:"infection_rate"`
	ContagionRate int `yaml:"contagion_rate"`
	LethalityRate int `yaml:"lethality_rate"`
	MigrationRate int `yaml:"migration_rate"`
}

// Mutation is the global rate bump applied at the start of every round; one
// of the three is picked at random.
type Mutation struct {
	Infection int `yaml:"infection"`
	Contagion int `yaml:"contagion"`
	Lethality int `yaml:"lethality"`
}

// Player seats one bot.
type Player struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`    // agent | script | command
	Script  string   `yaml:"script"`  // fixed response for script bots
	Command []string `yaml:"command"` // argv for command bots; the request is appended
	Workers int      `yaml:"workers"` // agent scoring goroutines
}

// Match is the complete judge configuration.
type Match struct {
	Rounds      int           `yaml:"rounds" env:"JUDGE_ROUNDS"`
	BirthRound  int           `yaml:"birth_round" env:"JUDGE_BIRTH_ROUND"`
	Seed        int64         `yaml:"seed" env:"JUDGE_SEED"`
	Shuffle     bool          `yaml:"shuffle" env:"JUDGE_SHUFFLE"`
	MoveTimeout time.Duration `yaml:"move_timeout" env:"JUDGE_MOVE_TIMEOUT"`
	Start       Start         `yaml:"start"`
	Mutation    Mutation      `yaml:"mutation"`
	Players     []Player      `yaml:"players"`
}

// Default returns the reference match: four seats, fifty rounds.
func Default() Match {
	return Match{
		Rounds:      50,
		BirthRound:  5,
		Shuffle:     true,
		MoveTimeout: 2 * time.Second,
		Start: Start{
			Healthy:       99,
			Infected:      1,
			Dead:          0,
			InfectionRate: 2,
			ContagionRate: 5,
			LethalityRate: 10,
			MigrationRate: 5,
		},
		Mutation: Mutation{Infection: 2, Contagion: 5, Lethality: 5},
		Players: []Player{
			{Name: "terrorist", Kind: KindAgent},
			{Name: "passive", Kind: KindScript, Script: "NNN"},
			{Name: "medic", Kind: KindScript, Script: "CCV"},
			{Name: "bioterrorist", Kind: KindScript, Script: "TWD"},
		},
	}
}

// Load builds a Match from defaults, the optional YAML file at path and the
// environment, then validates it.
func Load(path string) (Match, error) {
	cfg := Default()
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Match{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Match{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Match{}, err
	}
	return cfg, nil
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// Validate rejects configurations the judge cannot run.
func (m Match) Validate() error {
	if m.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", m.Rounds)
	}
	if m.BirthRound <= 0 {
		return fmt.Errorf("birth_round must be positive, got %d", m.BirthRound)
	}
	if m.MoveTimeout <= 0 {
		return fmt.Errorf("move_timeout must be positive, got %s", m.MoveTimeout)
	}
	for name, v := range map[string]int{
		"contagion_rate": m.Start.ContagionRate,
		"lethality_rate": m.Start.LethalityRate,
		"migration_rate": m.Start.MigrationRate,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("start.%s must be within 0..100, got %d", name, v)
		}
	}
	if m.Start.Healthy < 0 || m.Start.Infected < 0 || m.Start.Dead < 0 || m.Start.InfectionRate < 0 {
		return fmt.Errorf("start counts must be non-negative")
	}
	if len(m.Players) < 2 {
		return fmt.Errorf("need at least 2 players, got %d", len(m.Players))
	}
	for i, p := range m.Players {
		switch p.Kind {
		case KindAgent:
		case KindScript:
			if p.Script == "" {
				return fmt.Errorf("player %d (%s): script bots need a script", i, p.Name)
			}
		case KindCommand:
			if len(p.Command) == 0 {
				return fmt.Errorf("player %d (%s): command bots need a command", i, p.Name)
			}
		default:
			return fmt.Errorf("player %d (%s): unknown kind %q", i, p.Name, p.Kind)
		}
	}
	return nil
}
