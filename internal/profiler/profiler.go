// Package profiler runs one profiling process in simulated time: a
// selector picks configurations, the performance model stands in for the
// real measurement, and after the simulated time budget is spent a
// predictor is trained on the collected samples and scored against the
// full configuration space.
package profiler

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/errmetric"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/pmodel"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/predictor"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/selector"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/logger"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// DefaultMeasurementTime is the simulated duration of one measurement.
const DefaultMeasurementTime = 60 * time.Second

// Result is one row of experiment output.
type Result map[string]any

// Profiler drives the simulated measurement loop for one experiment
// configuration.
type Profiler struct {
	model   pmodel.Model
	inputs  [][]float64
	sel     selector.Selector
	pred    predictor.Predictor
	metrics []errmetric.Metric

	measurementTime time.Duration
	queue           *EventQueue
	simTime         *utils.SimTime
	logger          *slog.Logger

	trainConfigs [][]float64
	trainResults []float64
	durations    []float64
}

// New wires a profiler from its modules. The selector receives the
// model's enumerated configuration space and the model itself.
func New(model pmodel.Model, sel selector.Selector, pred predictor.Predictor, metrics []errmetric.Metric, measurementTime time.Duration) (*Profiler, error) {
	if model == nil || sel == nil || pred == nil {
		return nil, fmt.Errorf("profiler requires a model, a selector and a predictor")
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("profiler requires at least one error metric")
	}
	if measurementTime <= 0 {
		measurementTime = DefaultMeasurementTime
	}

	inputs := model.ConfigSpace()
	sel.SetInputs(inputs)
	sel.SetModel(model)

	return &Profiler{
		model:           model,
		inputs:          inputs,
		sel:             sel,
		pred:            pred,
		metrics:         metrics,
		measurementTime: measurementTime,
		queue:           NewEventQueue(),
		simTime:         utils.NewSimTime(),
		logger:          logger.Default,
	}, nil
}

// SetLogger sets the profiler's logger
func (p *Profiler) SetLogger(l *slog.Logger) {
	p.logger = l
}

// Run simulates the profiling process until the selector's budget or the
// simulated time limit is spent, then trains the predictor on the
// collected samples and scores it against the reference evaluation of
// the full configuration space.
func (p *Profiler) Run(simTMax time.Duration) (Result, error) {
	p.trainConfigs = nil
	p.trainResults = nil
	p.durations = nil

	if err := p.measurementLoop(simTMax); err != nil {
		return nil, err
	}
	if len(p.trainConfigs) == 0 {
		return nil, fmt.Errorf("no samples collected within sim_t_max %s", utils.FormatDuration(simTMax))
	}

	if err := p.pred.Train(p.trainConfigs, p.trainResults); err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}
	predicted, err := p.pred.Predict(p.inputs)
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	// reference result by full enumeration
	reference := make([]float64, len(p.inputs))
	for i, cfg := range p.inputs {
		r, err := p.model.Evaluate(cfg)
		if err != nil {
			return nil, fmt.Errorf("reference evaluation failed: %w", err)
		}
		reference[i] = r
	}

	result := Result{}
	for k, v := range p.model.Results() {
		result[k] = v
	}
	for k, v := range p.sel.Results() {
		result[k] = v
	}
	for k, v := range p.pred.Results() {
		result[k] = v
	}
	for _, m := range p.metrics {
		value, err := m.Calculate(reference, predicted)
		if err != nil {
			return nil, fmt.Errorf("error metric %s failed: %w", m.Name(), err)
		}
		result[strings.ToLower(m.ShortName())] = value
		for k, v := range m.Results() {
			result[k] = v
		}
	}
	result["sim_t_total"] = p.simTime.Seconds()
	result["sim_t_mean"] = utils.Mean(p.durations)

	p.logger.Debug("Profiling run done",
		"samples", len(p.trainConfigs),
		"sim_t_total", p.simTime.Seconds())
	return result, nil
}

// measurementLoop performs measurements in simulated time. Each
// measurement occupies a fixed simulated duration; a measurement whose
// completion would exceed the time limit is not started.
func (p *Profiler) measurementLoop(simTMax time.Duration) error {
	for p.sel.HasNext() {
		now := p.simTime.Now()
		if simTMax > 0 && now+p.measurementTime > simTMax {
			p.logger.Debug("Simulated time limit reached",
				"sim_t", utils.FormatDuration(now),
				"sim_t_max", utils.FormatDuration(simTMax))
			return nil
		}

		cfg, err := p.sel.Next()
		if err != nil {
			return fmt.Errorf("selection failed at sim_t %s: %w", utils.FormatDuration(now), err)
		}
		value, err := p.model.Evaluate(cfg)
		if err != nil {
			return fmt.Errorf("measurement failed: %w", err)
		}

		p.trainConfigs = append(p.trainConfigs, cfg)
		p.trainResults = append(p.trainResults, value)
		if err := p.sel.Feedback(cfg, value); err != nil {
			return fmt.Errorf("selector feedback failed: %w", err)
		}

		p.queue.Schedule(&Event{Type: EventTypeMeasurement, Time: now + p.measurementTime})
		done := p.queue.Next()
		p.simTime.Set(done.Time)
		p.durations = append(p.durations, p.measurementTime.Seconds())

		p.logger.Debug("Measured configuration",
			"sim_t", utils.FormatDuration(done.Time),
			"result", value)
	}
	p.logger.Debug("No configurations left. Stopping measurement loop.")
	return nil
}
