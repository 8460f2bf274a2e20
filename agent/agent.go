package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/vimy-resolve/batch"
	"github.com/nstehr/vimy/vimy-resolve/ipc"
	"github.com/nstehr/vimy/vimy-resolve/scenario"
	"github.com/nstehr/vimy/vimy-resolve/sim"
)

// Version is reported in the hello handshake.
const Version = "1"

// MaxBatchRuns bounds the runs a single batch request may ask for.
const MaxBatchRuns = 10000

var ErrBatchTooLarge = errors.New("batch exceeds run limit")

// Agent serves battle requests for a single client session.
type Agent struct {
	Conn    *ipc.Connection
	Client  string
	Logger  *slog.Logger
	Workers int // batch concurrency; 0 uses GOMAXPROCS
}

func New(conn *ipc.Connection, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{Conn: conn, Logger: logger}
}

// Register installs the agent's handlers on its connection.
func (a *Agent) Register() {
	a.Conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	a.Conn.RegisterHandler(ipc.TypeSimulate, a.HandleSimulate)
	a.Conn.RegisterHandler(ipc.TypeBatch, a.HandleBatch)
}

// HandleHello completes the handshake so the client knows the resolver is ready.
func (a *Agent) HandleHello(_ context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}

	a.Client = hello.Client
	a.Conn.Client = hello.Client
	a.Logger.Info("client identified", "client", a.Client, "version", hello.Version)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Version: Version})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleSimulate runs one battle and replies with its conclusion.
func (a *Agent) HandleSimulate(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.SimulateRequest
	if err := env.Decode(&req); err != nil {
		return nil, err
	}

	s := req.Scenario
	if req.Seed != 0 {
		s.Seed = req.Seed
	}
	if req.SummaryOnly {
		s.Options.SuppressLogging = true
	}
	c, err := scenario.Setup(&s, sim.WithLogger(a.Logger))
	if err != nil {
		return nil, fmt.Errorf("setup %q: %w", s.Name, err)
	}
	out, err := sim.New(c).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("simulate %q: %w", s.Name, err)
	}

	a.Logger.Info("simulation served",
		"client", a.Client,
		"scenario", s.Name,
		"run", out.RunID,
		"rounds", out.Rounds,
		"draw", out.Result.Draw,
	)
	reply, err := ipc.NewEnvelope(ipc.TypeConcluded, out)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// HandleBatch runs a batch and replies with its summary.
func (a *Agent) HandleBatch(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.BatchRequest
	if err := env.Decode(&req); err != nil {
		return nil, err
	}

	cfg := req.Config
	if cfg.Runs > MaxBatchRuns {
		return nil, fmt.Errorf("%w: %d runs, limit %d", ErrBatchTooLarge, cfg.Runs, MaxBatchRuns)
	}
	if cfg.Workers == 0 {
		cfg.Workers = a.Workers
	}
	sum, err := batch.Run(ctx, &req.Scenario, cfg)
	if err != nil {
		return nil, fmt.Errorf("batch %q: %w", req.Scenario.Name, err)
	}
	if !req.Outcomes {
		sum.Outcomes = nil
	}

	a.Logger.Info("batch served",
		"client", a.Client,
		"scenario", req.Scenario.Name,
		"runs", sum.Runs,
		"draws", sum.Draws,
		"mean_rounds", sum.MeanRounds(),
	)
	reply, err := ipc.NewEnvelope(ipc.TypeBatchSummary, sum)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}
