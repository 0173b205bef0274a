package cycle

import "errors"

// Controller drives the fixed phase sequence for the configured number
// of cycles, calling the regulator per phase and terminating the whole
// run on the first failure. It exclusively owns the RunState.
type Controller struct {
	profile *Profile
	ports   Ports
	logger  Logger
	reg     *Regulator
	state   *RunState
}

// NewController creates a controller with an idle run state.
func NewController(profile *Profile, ports Ports, logger Logger) *Controller {
	st := &RunState{Phase: PhaseIdle}
	return &Controller{
		profile: profile,
		ports:   ports,
		logger:  logger,
		reg:     NewRegulator(profile, ports, st, logger),
		state:   st,
	}
}

// State returns a copy of the current run state.
func (c *Controller) State() RunState {
	return *c.state
}

// Startable reports whether a new run may be triggered. Re-entrant
// triggering while a run is active is ignored by the caller.
func (c *Controller) Startable() bool {
	return c.state.Phase == PhaseIdle || c.state.Phase == PhaseFault
}

// Run executes the full cycle sequence. It blocks for the whole run and
// returns nil on normal completion or the *FaultError that aborted the
// run. On return the heater is off and the fan is on for an open-ended
// cooldown; the chamber is left fan-cooling until the next trigger.
func (c *Controller) Run() error {
	now := c.ports.Now()
	*c.state = RunState{
		Phase:      PhaseIdle,
		RunStart:   now,
		PhaseStart: now,
	}
	c.logger.Emit(*c.state, c.ports.ReadTemp(), true)

	var runErr error
	for c.state.Cycle < c.profile.NumCycles {
		i := c.state.Cycle

		denature := c.profile.DenatureTime
		if i == 0 {
			denature = c.profile.InitialDenatureTime
		}
		extend := c.profile.ExtendTime
		if i == c.profile.NumCycles-1 {
			extend = c.profile.FinalExtendTime
		}

		// One cycle: heat, denature, cool, anneal, heat, extend. No
		// heater reset between cycles: except on cycle 0 the chamber
		// enters already near the denature ramp from the prior
		// extension hold.
		runErr = c.runPhase(PhaseHeating, func() error {
			return c.reg.RiseTo(c.profile.DenatureTemp)
		})
		if runErr == nil {
			runErr = c.runPhase(PhaseDenaturing, func() error {
				return c.reg.HoldAt(c.profile.DenatureTemp, denature)
			})
		}
		if runErr == nil {
			runErr = c.runPhase(PhaseCooling, func() error {
				return c.reg.FallTo(c.profile.AnnealTemp)
			})
		}
		if runErr == nil {
			runErr = c.runPhase(PhaseAnnealing, func() error {
				return c.reg.HoldAt(c.profile.AnnealTemp, c.profile.AnnealTime)
			})
		}
		if runErr == nil {
			runErr = c.runPhase(PhaseHeating, func() error {
				return c.reg.RiseTo(c.profile.ExtendTemp)
			})
		}
		if runErr == nil {
			runErr = c.runPhase(PhaseExtending, func() error {
				return c.reg.HoldAt(c.profile.ExtendTemp, extend)
			})
		}

		if runErr != nil {
			c.fail(runErr)
			break
		}
		c.state.Cycle++
	}

	// Safe state: heater off, fan on for the open-ended cooldown.
	c.ports.SetHeater(false)
	c.ports.SetFan(true)

	if runErr == nil {
		c.state.Phase = PhaseIdle
		c.state.PhaseStart = c.ports.Now()
		c.logger.Emit(*c.state, c.ports.ReadTemp(), true)
	}
	return runErr
}

// runPhase transitions into phase, emits the forced transition record,
// and executes the regulation routine.
func (c *Controller) runPhase(phase Phase, run func() error) error {
	c.state.Phase = phase
	c.state.PhaseStart = c.ports.Now()
	c.logger.Emit(*c.state, c.ports.ReadTemp(), true)
	return run()
}

// fail records the fault, emits the forced fault record, and forces the
// cycle index to the abort sentinel so no further phases execute.
func (c *Controller) fail(err error) {
	var fe *FaultError
	kind := FaultUnstable
	if errors.As(err, &fe) {
		kind = fe.Kind
	}
	c.state.Phase = PhaseFault
	c.state.Fault = kind
	c.logger.Emit(*c.state, c.ports.ReadTemp(), true)
	c.state.Cycle = c.profile.NumCycles
}
