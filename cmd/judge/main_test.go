package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/epidemic/controller"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const scriptConfig = `
rounds: 3
seed: 9
shuffle: false
players:
  - name: idle
    kind: script
    script: NNN
  - name: medic
    kind: script
    script: CCV
`

func TestRunPrintsScoreboard(t *testing.T) {
	outDir := t.TempDir()
	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-config", writeConfig(t, scriptConfig), "-out-dir", outDir}, &stdout)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	t.Log(stdout.String())

	out := stdout.String()
	if !strings.Contains(out, "(3 rounds)") {
		t.Errorf("scoreboard missing round count:\n%s", out)
	}
	for _, name := range []string{"idle", "medic"} {
		if !strings.Contains(out, name) {
			t.Errorf("scoreboard missing %s:\n%s", name, out)
		}
	}

	files, err := filepath.Glob(filepath.Join(outDir, "match_*.parquet"))
	if err != nil || len(files) != 1 {
		t.Errorf("recorded files = %v (err %v), want 1", files, err)
	}
}

func TestRunRoundOverride(t *testing.T) {
	var stdout bytes.Buffer
	args := []string{"-config", writeConfig(t, scriptConfig), "-out-dir", "", "-rounds", "1", "-matches", "2"}
	if err := run(context.Background(), args, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(stdout.String(), "(1 rounds)"); got != 2 {
		t.Errorf("got %d one-round matches, want 2:\n%s", got, stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	tests := map[string][]string{
		"bad flag":       {"-nope"},
		"missing config": {"-config", filepath.Join(t.TempDir(), "missing.yaml")},
		"zero matches":   {"-matches", "0"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			var stdout bytes.Buffer
			if err := run(context.Background(), args, &stdout); err == nil {
				t.Fatal("expected error")
			}
			if stdout.Len() != 0 {
				t.Errorf("wrote %q on error", stdout.String())
			}
		})
	}
}

func TestModelTracksFrames(t *testing.T) {
	updates := make(chan controller.Frame)
	var m tea.Model = initialModel(updates, 50)

	m, _ = m.Update(controller.Frame{
		MatchID:   "abc",
		Round:     1,
		Mutation:  controller.MutationInfection,
		States:    []controller.State{{ID: 0, Name: "idle", Healthy: 97}},
		Responses: map[int]string{0: "NNN"},
		Errors:    map[int]string{1: "timeout"},
	})
	m, _ = m.Update(controller.Frame{MatchID: "abc", Round: 1, Final: true})

	got := m.(model)
	if got.roundsPlayed != 1 || got.matchesPlayed != 1 {
		t.Errorf("rounds=%d matches=%d, want 1/1", got.roundsPlayed, got.matchesPlayed)
	}
	if len(got.recentRounds) != 1 || !strings.Contains(got.recentRounds[0], "0:NNN 1:!") {
		t.Errorf("recent rounds = %q", got.recentRounds)
	}

	view := m.View()
	for _, want := range []string{"Match:          abc", "Round:          1/50", "Match over."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}
