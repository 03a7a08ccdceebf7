// Package experiment runs seeded replications of a compiled network and turns
// their per-node statistics into summary tables.
package experiment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/procsim/procsim/sim"
	"github.com/procsim/procsim/sim/process"
)

// minWindow keeps mean_Lq finite when the observation window is empty.
const minWindow = 1e-9

// Engine is the part of a simulator a replication needs.
type Engine interface {
	SimulateUntil(ctx context.Context, horizon float64) error
	Records() []sim.VisitRecord
	BusyTime(node int) float64
	ServerCount(node int) int
}

// EngineFactory builds a fresh engine for one replication.
type EngineFactory func(net *sim.Network, seed int64) Engine

// DefaultEngine runs replications on sim.Simulator.
func DefaultEngine(net *sim.Network, seed int64) Engine {
	return sim.NewSimulator(net, seed)
}

// ReplicationRow holds one node's statistics from one replication.
type ReplicationRow struct {
	Replication int              `yaml:"replication"`
	Node        int              `yaml:"node"`
	Activity    string           `yaml:"activity_name"`
	Resource    string           `yaml:"resource_name"`
	Capacity    process.Capacity `yaml:"capacity"`
	Arrivals    int              `yaml:"arrivals"`
	MeanWait    float64          `yaml:"mean_wait"`
	MeanService float64          `yaml:"mean_service"`
	Utilisation float64          `yaml:"utilisation"` // percent, 0-100
	MeanLq      float64          `yaml:"mean_Lq"`
}

// Runner executes replications of one network. The network and model are
// only read, so a Runner may be reused.
type Runner struct {
	net     *sim.Network
	model   *process.Model
	engine  EngineFactory
	metrics *Metrics
	runID   string
}

// Option configures a Runner.
type Option func(*Runner)

// WithEngine replaces the simulator used for each replication.
func WithEngine(f EngineFactory) Option {
	return func(r *Runner) { r.engine = f }
}

// WithMetrics records run statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithRunID sets the identifier attached to log lines. A random UUID is used
// otherwise.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// NewRunner pairs a compiled network with the model it was compiled from;
// the model supplies activity and resource names by node index. Models built
// in code rather than loaded from a file are structurally validated here.
func NewRunner(net *sim.Network, model *process.Model, opts ...Option) (*Runner, error) {
	if net == nil || model == nil {
		return nil, fmt.Errorf("runner needs a network and its process model")
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if got, want := len(model.Activities), net.NumNodes(); got != want {
		return nil, fmt.Errorf("model has %d activities but the network has %d nodes", got, want)
	}
	r := &Runner{
		net:    net,
		model:  model,
		engine: DefaultEngine,
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunID returns the identifier attached to this runner's log lines.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes cfg.Replications independent replications and returns one row
// per (replication, node), ordered by replication then node regardless of
// cfg.Workers. Any replication failure aborts the batch and no rows are
// returned.
func (r *Runner) Run(ctx context.Context, cfg Config) ([]ReplicationRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{
		"run_id":       r.runID,
		"replications": cfg.Replications,
		"horizon":      cfg.Horizon,
		"warmup":       cfg.Warmup,
	})
	log.Infof("starting %d replications with %d workers", cfg.Replications, cfg.Workers)
	start := time.Now()

	results := make([][]ReplicationRow, cfg.Replications)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for rep := 0; rep < cfg.Replications; rep++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &sim.SimulationExecutionError{Replication: rep, Err: err}
			}
			repStart := time.Now()
			rows, err := r.replicate(gctx, cfg, rep)
			if err != nil {
				r.metrics.fail()
				return &sim.SimulationExecutionError{Replication: rep, Err: err}
			}
			elapsed := time.Since(repStart)
			r.metrics.observe(rows, elapsed.Seconds())
			log.WithField("replication", rep).Debugf("replication finished in %v", elapsed)
			results[rep] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warnf("run aborted: %v", err)
		return nil, err
	}

	out := make([]ReplicationRow, 0, cfg.Replications*r.net.NumNodes())
	for _, rows := range results {
		out = append(out, rows...)
	}
	log.Infof("finished in %v", time.Since(start))
	return out, nil
}

// replicate runs one replication. With a warmup the engine first advances to
// W so utilisation can be measured over [W, T] only.
func (r *Runner) replicate(ctx context.Context, cfg Config, rep int) ([]ReplicationRow, error) {
	n := r.net.NumNodes()
	eng := r.engine(r.net, cfg.Seed+int64(rep))

	warmBusy := make([]float64, n)
	windowed := cfg.Warmup > 0 && cfg.Warmup < cfg.Horizon
	if windowed {
		if err := eng.SimulateUntil(ctx, cfg.Warmup); err != nil {
			return nil, err
		}
		for i := range warmBusy {
			warmBusy[i] = eng.BusyTime(i)
		}
	}
	if err := eng.SimulateUntil(ctx, cfg.Horizon); err != nil {
		return nil, err
	}

	type acc struct {
		count         int
		wait, service float64
	}
	per := make([]acc, n)
	for _, rec := range eng.Records() {
		if rec.ArrivalTime < cfg.Warmup {
			continue
		}
		if rec.Node < 0 || rec.Node >= n {
			return nil, fmt.Errorf("engine reported a visit to unknown node %d", rec.Node)
		}
		a := &per[rec.Node]
		a.count++
		a.wait += rec.WaitingTime
		a.service += rec.ServiceTime
	}

	window := cfg.Horizon - cfg.Warmup
	rows := make([]ReplicationRow, n)
	for i, act := range r.model.Activities {
		row := ReplicationRow{
			Replication: rep,
			Node:        i,
			Activity:    act.Name,
			Resource:    act.Resource.Name,
			Capacity:    act.Resource.Capacity(),
			Arrivals:    per[i].count,
			MeanLq:      per[i].wait / math.Max(window, minWindow),
		}
		if per[i].count > 0 {
			row.MeanWait = per[i].wait / float64(per[i].count)
			row.MeanService = per[i].service / float64(per[i].count)
		}
		if window > 0 {
			if c := eng.ServerCount(i); c > 0 {
				u := (eng.BusyTime(i) - warmBusy[i]) / (float64(c) * window)
				row.Utilisation = 100 * math.Min(1, math.Max(0, u))
			}
		}
		rows[i] = row
	}
	return rows, nil
}
