// Command lenslink tracks collaborative photo sessions. The same session list
// is reachable from the terminal, an HTTP API and a Discord slash command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/KirkDiggler/lenslink/internal/config"
	"github.com/golang/glog"
	"github.com/joho/godotenv"
)

var (
	configPath = flag.String("config", "lenslink.yaml", "Path of the YAML config file. Created with defaults when missing.")
	envFile    = flag.String("env-file", ".env", "Optional dotenv file loaded before the config.")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: lenslink [flags] <command> [args]\n\nCommands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-10s %s\n", name, commands[name].summary)
	}

	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := do(ctx, cmd, flag.Args()[1:]); err != nil {
		glog.Flush()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func do(ctx context.Context, cmd *command, args []string) error {
	// A missing .env is normal outside development
	if err := godotenv.Load(*envFile); err != nil {
		glog.V(1).Infof("no env file loaded from %s: %v", *envFile, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("while loading config: %w", err)
	}
	cfg.ApplyEnv()

	a, err := newApp(ctx, cfg, cmd.concurrent)
	if err != nil {
		return err
	}
	defer a.close()

	return cmd.run(ctx, a, args)
}
