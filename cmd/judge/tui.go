package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/epidemic/controller"
)

const recentRounds = 10

type model struct {
	maxRounds     int
	matchesPlayed int
	roundsPlayed  int
	startTime     time.Time
	current       controller.Frame
	recentRounds  []string
	updates       chan controller.Frame
}

func initialModel(updates chan controller.Frame, maxRounds int) model {
	return model{
		maxRounds: maxRounds,
		startTime: time.Now(),
		updates:   updates,
	}
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func waitForUpdate(updates chan controller.Frame) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		return m, tickCmd()
	case controller.Frame:
		if msg.Final {
			m.matchesPlayed++
		} else {
			m.roundsPlayed++
			m.recentRounds = append([]string{summarise(msg)}, m.recentRounds...)
			if len(m.recentRounds) > recentRounds {
				m.recentRounds = m.recentRounds[:recentRounds]
			}
		}
		m.current = msg
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func summarise(f controller.Frame) string {
	ids := make([]int, 0, len(f.Responses)+len(f.Errors))
	for id := range f.Responses {
		ids = append(ids, id)
	}
	for id := range f.Errors {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := f.Responses[id]; ok {
			parts = append(parts, fmt.Sprintf("%d:%s", id, r))
		} else {
			parts = append(parts, fmt.Sprintf("%d:!", id))
		}
	}
	return fmt.Sprintf("Round %2d %-9s %s", f.Round, f.Mutation, strings.Join(parts, " "))
}

func (m model) View() string {
	duration := time.Since(m.startTime)

	s := fmt.Sprintf("Match:          %s\n", m.current.MatchID)
	s += fmt.Sprintf("Round:          %d/%d\n", m.current.Round, m.maxRounds)
	s += fmt.Sprintf("Matches Played: %d\n", m.matchesPlayed)
	s += fmt.Sprintf("Rounds Played:  %d\n", m.roundsPlayed)
	s += fmt.Sprintf("Duration:       %s\n\n", duration.Round(time.Second))

	s += fmt.Sprintf("%-3s %-14s %8s %8s %8s %4s %4s %4s %4s\n", "ID", "Player", "Healthy", "Infected", "Dead", "IR", "CR", "LR", "MR")
	for _, st := range m.current.States {
		s += fmt.Sprintf("%-3d %-14s %8d %8d %8d %4d %4d %4d %4d\n",
			st.ID, st.Name, st.Healthy, st.Infected, st.Dead,
			st.InfectionRate, st.ContagionRate, st.LethalityRate, st.MigrationRate)
	}

	s += "\nRecent Rounds:\n"
	for _, r := range m.recentRounds {
		s += r + "\n"
	}

	if m.current.Final {
		s += "\nMatch over."
	}
	s += "\nPress q to quit.\n"
	return s
}
