// Command terrorist is the per-round agent. The judge runs it once per round
// with the encoded game state as the only argument and reads the chosen
// action codes from stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/brensch/epidemic/agent"
	"github.com/brensch/epidemic/protocol"
	"github.com/brensch/epidemic/search"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("terrorist: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("terrorist", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	verbose := fs.Bool("v", getEnvBoolOrDefault("TERRORIST_VERBOSE", false), "Log every decision to stderr")
	workers := fs.Int("workers", 1, "Score candidate actions on this many goroutines")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("flag parse: %w", err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: terrorist [flags] <request>")
	}

	req, err := protocol.ParseRequest(fs.Arg(0))
	if err != nil {
		return err
	}

	a := agent.New(search.Config{Workers: *workers}, *verbose)
	turn, err := a.Play(ctx, req)
	if err != nil {
		return err
	}

	if turn.Sentinel {
		_, err = fmt.Fprintln(stdout, turn.Response)
		return err
	}
	_, err = fmt.Fprint(stdout, turn.Response)
	return err
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
