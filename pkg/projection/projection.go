// Package projection builds what-if payoff schedules: synthetic future event
// timelines (scheduled payments, draws, and extra-principal rules) simulated
// against a starting balance. Two fidelity levels are provided: a
// period-level simulation that accrues a flat periodic interest charge, and
// an event-level simulation that accrues interest daily between events.
package projection

import (
	"go.uber.org/zap"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/model"
)

// Options tunes a projection run.
type Options struct {
	// RemainingPeriods is the contractually remaining scheduled period
	// count, used to size the iteration ceiling.
	RemainingPeriods int

	// FixedPayment pins event-level base payments to the scheduled amount
	// computed off the starting balance instead of recomputing them from
	// the current balance at each event.
	FixedPayment bool

	// Draws are hypothetical future draws applied by the event-level
	// simulation.
	Draws []model.Draw
}

// Projector runs what-if simulations.
type Projector struct {
	logger *zap.Logger
}

// NewProjector creates a projector. If logger is nil a no-op logger is used.
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger}
}

// ceiling bounds a simulation's period count so pathological inputs (e.g. a
// payment that never covers interest) still terminate. Hitting the ceiling
// with a positive balance is reported as a projection that never pays off.
func (p *Projector) ceiling(remainingPeriods int) int {
	c := remainingPeriods + constants.ProjectionCeilingPad
	if c < constants.ProjectionCeilingFloor {
		c = constants.ProjectionCeilingFloor
	}
	return c
}
