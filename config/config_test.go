package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rounds != 50 || cfg.BirthRound != 5 || cfg.Start.Healthy != 99 || cfg.Start.LethalityRate != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Players) != 4 || cfg.Players[0].Kind != KindAgent {
		t.Fatalf("unexpected default players: %+v", cfg.Players)
	}
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
rounds: 12
move_timeout: 750ms
start:
  healthy: 50
players:
  - name: me
    kind: agent
    workers: 4
  - name: wall
    kind: script
    script: BBB
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rounds != 12 || cfg.MoveTimeout != 750*time.Millisecond {
		t.Fatalf("rounds=%d timeout=%s", cfg.Rounds, cfg.MoveTimeout)
	}
	if cfg.Start.Healthy != 50 || cfg.Start.Infected != 1 {
		t.Fatalf("start=%+v want healthy overridden, infected kept", cfg.Start)
	}
	if len(cfg.Players) != 2 || cfg.Players[0].Workers != 4 || cfg.Players[1].Script != "BBB" {
		t.Fatalf("players=%+v", cfg.Players)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "rounds: 12\nseed: 3\n")
	t.Setenv("JUDGE_ROUNDS", "7")
	t.Setenv("JUDGE_SHUFFLE", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rounds != 7 || cfg.Seed != 3 || cfg.Shuffle {
		t.Fatalf("rounds=%d seed=%d shuffle=%v", cfg.Rounds, cfg.Seed, cfg.Shuffle)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"no rounds":     "rounds: 0\n",
		"one player":    "players:\n  - {name: a, kind: agent}\n",
		"bad kind":      "players:\n  - {name: a, kind: agent}\n  - {name: b, kind: robot}\n",
		"empty script":  "players:\n  - {name: a, kind: agent}\n  - {name: b, kind: script}\n",
		"empty command": "players:\n  - {name: a, kind: agent}\n  - {name: b, kind: command}\n",
		"rate too high": "start:\n  contagion_rate: 101\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, body)); err == nil {
				t.Fatalf("Load accepted %q", body)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "nope.yaml") {
		t.Fatalf("err=%v", err)
	}
}
