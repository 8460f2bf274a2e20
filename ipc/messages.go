package ipc

import (
	"github.com/nstehr/vimy/vimy-resolve/batch"
	"github.com/nstehr/vimy/vimy-resolve/scenario"
)

// Message types. Requests are hello, simulate and batch; each is answered
// with ack, concluded or batch_summary respectively, or error.
const (
	TypeHello        = "hello"
	TypeAck          = "ack"
	TypeSimulate     = "simulate"
	TypeConcluded    = "concluded"
	TypeBatch        = "batch"
	TypeBatchSummary = "batch_summary"
	TypeError        = "error"
)

type HelloMessage struct {
	Client  string `json:"client"`
	Version string `json:"version,omitempty"`
}

type AckMessage struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// SimulateRequest runs one battle. A non-zero Seed overrides the
// scenario's; SummaryOnly keeps only victory, destruction and withdrawal
// reports in the reply.
type SimulateRequest struct {
	Scenario    scenario.Scenario `json:"scenario"`
	Seed        int64             `json:"seed,omitempty"`
	SummaryOnly bool              `json:"summary_only,omitempty"`
}

// BatchRequest runs many battles. Per-run outcomes are dropped from the
// reply unless Outcomes is set.
type BatchRequest struct {
	Scenario scenario.Scenario `json:"scenario"`
	Config   batch.Config      `json:"config"`
	Outcomes bool              `json:"outcomes,omitempty"`
}

// ErrorMessage reports a request that could not be served.
type ErrorMessage struct {
	Request string `json:"request"`
	Error   string `json:"error"`
}
