package controller

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/brensch/epidemic/agent"
	"github.com/brensch/epidemic/config"
	"github.com/brensch/epidemic/search"
)

// ScriptBot answers every request with the same response.
type ScriptBot struct {
	Response string
}

func (b ScriptBot) Respond(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.Response, nil
}

// CommandBot runs an external program once per round with the request as its
// last argument and reads the response from stdout.
type CommandBot struct {
	Path string
	Args []string
}

func (b CommandBot) Respond(ctx context.Context, request string) (string, error) {
	args := append(append([]string(nil), b.Args...), request)
	cmd := exec.CommandContext(ctx, b.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", b.Path, err, msg)
		}
		return "", fmt.Errorf("%s: %w", b.Path, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// SeatsFromConfig builds one seat per configured player.
func SeatsFromConfig(players []config.Player) ([]Seat, error) {
	seats := make([]Seat, 0, len(players))
	for i, p := range players {
		var bot Bot
		switch p.Kind {
		case config.KindAgent:
			bot = agent.New(search.Config{Workers: p.Workers}, false)
		case config.KindScript:
			bot = ScriptBot{Response: p.Script}
		case config.KindCommand:
			if len(p.Command) == 0 {
				return nil, fmt.Errorf("player %d (%s): empty command", i, p.Name)
			}
			bot = CommandBot{Path: p.Command[0], Args: p.Command[1:]}
		default:
			return nil, fmt.Errorf("player %d (%s): unknown kind %q", i, p.Name, p.Kind)
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("player%d", i)
		}
		seats = append(seats, Seat{Name: name, Bot: bot})
	}
	return seats, nil
}
