package services

import (
	"context"
	"time"
)

// Operation names one unit of simulated external work
type Operation struct {
	Kind string // "payment", "withdrawal", "profile", "school"
	Ref  string
}

const (
	OpPayment    = "payment"
	OpWithdrawal = "withdrawal"
	OpProfile    = "profile"
	OpSchool     = "school"
)

// Processor stands in for the external gateway a submission goes through.
// A non-nil error means the submission failed and nothing may be committed.
type Processor interface {
	Process(ctx context.Context, op Operation) error
}

// ProcessorFunc adapts a plain function to Processor
type ProcessorFunc func(ctx context.Context, op Operation) error

// Process calls f(ctx, op)
func (f ProcessorFunc) Process(ctx context.Context, op Operation) error {
	return f(ctx, op)
}

// SimulatedProcessor waits a fixed latency and then succeeds
type SimulatedProcessor struct {
	Latency time.Duration
}

// NewSimulatedProcessor creates a processor with the given latency
func NewSimulatedProcessor(latency time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{Latency: latency}
}

// Process blocks for the latency or until ctx is done
func (p *SimulatedProcessor) Process(ctx context.Context, _ Operation) error {
	if p.Latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Instant is a processor that succeeds immediately
var Instant Processor = ProcessorFunc(func(ctx context.Context, _ Operation) error {
	return ctx.Err()
})
