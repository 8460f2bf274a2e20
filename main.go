package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/vimy/vimy-resolve/agent"
	"github.com/nstehr/vimy/vimy-resolve/batch"
	"github.com/nstehr/vimy/vimy-resolve/config"
	"github.com/nstehr/vimy/vimy-resolve/ipc"
	"github.com/nstehr/vimy/vimy-resolve/scenario"
	"github.com/nstehr/vimy/vimy-resolve/sim"
)

const banner = `
██╗   ██╗██╗███╗   ███╗██╗   ██╗
██║   ██║██║████╗ ████║╚██╗ ██╔╝
██║   ██║██║██╔████╔██║ ╚████╔╝
╚██╗ ██╔╝██║██║╚██╔╝██║  ╚██╔╝
 ╚████╔╝ ██║██║ ╚═╝ ██║   ██║
  ╚═══╝  ╚═╝╚═╝     ╚═╝   ╚═╝

Abstracted Battle Resolution`

const usage = `usage: vimy-resolve <command> [flags] [scenario]

commands:
  run     resolve one battle and print its reports
  batch   resolve many battles and print win rates
  serve   answer simulate and batch requests on a unix socket

Every flag can also be set as a VIMY_RESOLVE_* environment variable or in .env.
Run "vimy-resolve <command> -h" for flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	cmd := os.Args[1]
	if cmd != "run" && cmd != "batch" && cmd != "serve" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := config.LoadDotEnv(); err != nil {
		exitf("load .env: %v", err)
	}
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfg, err := config.ParseConfig(fs, os.Args[2:])
	if err != nil {
		exitf("parse config: %v", err)
	}
	if cfg.Scenario == "" && fs.NArg() > 0 {
		cfg.Scenario = fs.Arg(0)
	}

	// Results go to stdout, so one-shot commands log to stderr.
	var logOut io.Writer = os.Stderr
	if cmd == "serve" {
		logOut = os.Stdout
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "run":
		err = runOnce(ctx, cfg, logger)
	case "batch":
		err = runBatch(ctx, cfg)
	case "serve":
		fmt.Println(banner)
		err = serve(ctx, cfg, logger)
	}
	if err != nil {
		exitf("%s: %v", cmd, err)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// loadScenario reads the configured scenario and applies command-line
// overrides.
func loadScenario(cfg config.Config) (*scenario.Scenario, error) {
	if cfg.Scenario == "" {
		return nil, fmt.Errorf("no scenario given")
	}
	s, err := scenario.LoadFile(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	if cfg.Seed != 0 {
		s.Seed = cfg.Seed
	}
	if cfg.RoundLimit > 0 {
		s.Options.RoundLimit = cfg.RoundLimit
	}
	if cfg.Quiet {
		s.Options.SuppressLogging = true
	}
	return s, nil
}

func runOnce(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	s, err := loadScenario(cfg)
	if err != nil {
		return err
	}
	c, err := scenario.Setup(s, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	out, err := sim.New(c).Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Format == config.FormatJSON {
		return writeJSON(os.Stdout, out)
	}
	fmt.Printf("%s (seed %d)\n\n", s.Name, out.Seed)
	for _, e := range out.Reports {
		fmt.Println(e)
	}
	fmt.Println()
	switch {
	case out.Forced:
		fmt.Printf("Forced draw after %d rounds\n", out.Rounds)
	case out.Result.Draw:
		fmt.Printf("Draw after %d rounds\n", out.Rounds)
	default:
		fmt.Printf("Decided after %d rounds\n", out.Rounds)
	}
	return nil
}

func runBatch(ctx context.Context, cfg config.Config) error {
	s, err := loadScenario(cfg)
	if err != nil {
		return err
	}
	sum, err := batch.Run(ctx, s, batch.Config{Runs: cfg.Runs, Workers: cfg.Workers, SeedBase: cfg.Seed})
	if err != nil {
		return err
	}
	if cfg.Format == config.FormatJSON {
		return writeJSON(os.Stdout, sum)
	}
	return sum.Write(os.Stdout)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	socketPath := cfg.Socket

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", socketPath, err)
	}
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer os.Remove(socketPath)
	defer listener.Close()

	logger.Info("listening on domain socket", "path", socketPath)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					logger.Error("failed to accept connection", "error", err)
					continue
				}
			}
			logger.Info("new connection accepted")
			go handleConn(ctx, conn, logger, cfg.Workers)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func handleConn(ctx context.Context, conn net.Conn, logger *slog.Logger, workers int) {
	c := ipc.NewConnection(conn, nil)
	c.SetLogger(logger)
	a := agent.New(c, logger)
	a.Workers = workers
	a.Register()
	c.ReadLoop(ctx)
}
