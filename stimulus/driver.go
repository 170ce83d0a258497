// Package stimulus drives an elastic buffer stage with randomized
// valid/ready/reset sequences and checks the stage's conformance
// invariants on every tick.
package stimulus

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/sarchlab/ebsim/monitor"
	"github.com/sarchlab/ebsim/stage"
	"github.com/sarchlab/ebsim/word"
)

// DriverOption is a functional option for configuring the Driver.
type DriverOption func(*Driver)

// WithLogger sets the structured logger used for per-run progress.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithTrace writes a CSV tick trace to w (one row per tick).
func WithTrace(w io.Writer) DriverOption {
	return func(d *Driver) {
		d.trace = w
	}
}

// WithRand sets a custom random stream, overriding the config seed.
func WithRand(rng *rand.Rand) DriverOption {
	return func(d *Driver) {
		d.rng = rng
	}
}

// Result summarizes one stimulus run.
type Result struct {
	// Stats is the stage's accumulated statistics, drain included.
	Stats stage.Statistics
	// Delivered is the number of correctly delivered items.
	Delivered uint64
	// DrainTicks is the number of ticks the post-run drain took.
	DrainTicks uint64
	// Violations collects every invariant failure detected during the run.
	Violations []monitor.Violation
}

// Passed reports whether the run detected no violations.
func (r Result) Passed() bool {
	return len(r.Violations) == 0
}

// Driver owns a stage and its checkers and feeds them randomized
// per-tick inputs.
type Driver struct {
	config     *Config
	stage      *stage.Stage
	mon        *monitor.Monitor
	scoreboard *monitor.Scoreboard
	rng        *rand.Rand
	logger     *slog.Logger
	trace      io.Writer
	tick       uint64
	violations []monitor.Violation
}

// NewDriver creates a driver for a fresh stage built from config.
func NewDriver(config *Config, opts ...DriverOption) (*Driver, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s, err := stage.New(config.DataWidth)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		config:     config,
		stage:      s,
		mon:        monitor.New(),
		scoreboard: monitor.NewScoreboard(s.Width()),
		rng:        rand.New(rand.NewSource(config.Seed)),
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.trace != nil {
		fmt.Fprintln(d.trace,
			"tick,reset,up_valid,up_data,down_ready,up_ready,down_valid,down_data,in_xfer,out_xfer")
	}

	return d, nil
}

// Stage returns the driven stage.
func (d *Driver) Stage() *stage.Stage {
	return d.stage
}

// Step advances the stage by one tick with randomized inputs.
func (d *Driver) Step() stage.Output {
	in := stage.Input{
		Reset:           d.rng.Float64() < d.config.ResetProbability,
		UpstreamValid:   d.rng.Float64() < d.config.ValidProbability,
		UpstreamData:    word.Word(d.rng.Uint64()),
		DownstreamReady: d.rng.Float64() < d.config.ReadyProbability,
	}
	return d.apply(in)
}

// apply ticks the stage with in and feeds every checker.
func (d *Driver) apply(in stage.Input) stage.Output {
	out := d.stage.Tick(in)
	d.mon.Observe(in, out)
	d.scoreboard.Observe(in, out)

	if d.trace != nil {
		fmt.Fprintf(d.trace, "%d,%b,%b,0x%X,%b,%b,%b,0x%X,%b,%b\n",
			d.tick,
			b2i(in.Reset), b2i(in.UpstreamValid), uint64(in.UpstreamData),
			b2i(in.DownstreamReady),
			b2i(out.UpstreamReady), b2i(out.DownstreamValid),
			uint64(out.DownstreamData),
			b2i(out.InputTransfer), b2i(out.OutputTransfer))
	}

	d.tick++
	return out
}

// Drain keeps ticking with the consumer ready and the producer idle until
// the stage stops asserting valid, bounded by the configured drain limit.
// Returns the number of drain ticks taken.
func (d *Driver) Drain() uint64 {
	var ticks uint64
	for d.stage.Signals(true).DownstreamValid {
		if ticks >= d.config.DrainLimit {
			d.violations = append(d.violations, monitor.Violation{
				Tick: d.tick,
				Kind: monitor.KindStuck,
				Detail: fmt.Sprintf(
					"still valid after %d drain ticks", ticks),
			})
			break
		}
		d.apply(stage.Input{DownstreamReady: true})
		ticks++
	}
	return ticks
}

// Run executes the configured number of randomized ticks, drains the
// stage, and returns the collected result.
func (d *Driver) Run() Result {
	d.logger.Info("stimulus run starting",
		"ticks", d.config.Ticks,
		"seed", d.config.Seed,
		"data_width", d.config.DataWidth)

	for i := uint64(0); i < d.config.Ticks; i++ {
		d.Step()
	}
	drainTicks := d.Drain()

	result := Result{
		Stats:      d.stage.Stats(),
		Delivered:  d.scoreboard.Delivered(),
		DrainTicks: drainTicks,
		Violations: d.Violations(),
	}

	d.logger.Info("stimulus run finished",
		"delivered", result.Delivered,
		"throughput", result.Stats.Throughput(),
		"occupancy", result.Stats.Occupancy(),
		"violations", len(result.Violations))

	return result
}

// Violations returns every violation detected so far, from the temporal
// monitor, the scoreboard, and the drain bound.
func (d *Driver) Violations() []monitor.Violation {
	var all []monitor.Violation
	all = append(all, d.mon.Violations()...)
	all = append(all, d.scoreboard.Violations()...)
	all = append(all, d.violations...)
	return all
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
