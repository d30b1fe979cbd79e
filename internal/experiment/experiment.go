// Package experiment expands a configuration into the cartesian product
// of its module variants and drives one profiling run per combination
// and repetition, collecting the result rows for persistence.
package experiment

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/errmetric"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/pmodel"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/predictor"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/profiler"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/selector"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/logger"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// Experiment holds one parsed configuration and the module variants
// generated from it. Prepare must be called before Run.
type Experiment struct {
	conf   config.Config
	logger *slog.Logger

	pmodels    []pmodel.Factory
	selectors  []selector.Factory
	predictors []predictor.Factory
	metrics    []errmetric.Factory
	simTimes   []float64

	prepared bool
	rows     []profiler.Result
}

// New creates an experiment from a validated configuration
func New(conf config.Config) *Experiment {
	return &Experiment{
		conf:   conf,
		logger: logger.Default,
	}
}

// SetLogger sets the experiment's logger
func (e *Experiment) SetLogger(l *slog.Logger) {
	e.logger = l
}

// Prepare generates the module variant lists from the configuration.
// Each expandable module parameter contributes one variant per value,
// so a single configuration file can describe a whole study.
func (e *Experiment) Prepare() error {
	var err error
	if e.pmodels, err = pmodel.Generate(e.conf.PModel); err != nil {
		return fmt.Errorf("pmodel: %w", err)
	}
	if e.selectors, err = selector.Generate(e.conf.Selector); err != nil {
		return fmt.Errorf("selector: %w", err)
	}
	if e.predictors, err = predictor.Generate(e.conf.Predictor); err != nil {
		return fmt.Errorf("predictor: %w", err)
	}
	if e.metrics, err = errmetric.Generate(e.conf.Error); err != nil {
		return fmt.Errorf("error metric: %w", err)
	}
	if e.simTimes, err = config.ExpandParameters(e.conf.SimTMax); err != nil {
		return fmt.Errorf("sim_t_max: %w", err)
	}

	e.prepared = true
	e.logger.Info("Prepared experiment",
		"name", e.conf.Name,
		"configurations", e.Configurations(),
		"repetitions", e.repetitions())
	return nil
}

// Configurations returns the number of distinct run configurations,
// not counting repetitions.
func (e *Experiment) Configurations() int {
	return len(e.pmodels) * len(e.selectors) * len(e.predictors) * len(e.simTimes)
}

func (e *Experiment) repetitions() int {
	return utils.Max(e.conf.Repetitions, 1)
}

func (e *Experiment) measurementTime() time.Duration {
	if e.conf.MeasurementTimeS <= 0 {
		return profiler.DefaultMeasurementTime
	}
	return utils.SecondsToTime(e.conf.MeasurementTimeS)
}

// Run executes every run configuration with every repetition. Each run
// gets fresh module instances from the generated factories so no state
// leaks between runs. Cancelling the context stops the experiment
// between runs.
func (e *Experiment) Run(ctx context.Context) error {
	if !e.prepared {
		return fmt.Errorf("experiment is not prepared")
	}

	start := time.Now()
	confID := 0
	for _, pmF := range e.pmodels {
		for _, selF := range e.selectors {
			for _, predF := range e.predictors {
				for _, simT := range e.simTimes {
					for rep := 0; rep < e.repetitions(); rep++ {
						select {
						case <-ctx.Done():
							return ctx.Err()
						default:
						}
						row, err := e.runOne(confID, rep, pmF, selF, predF, simT)
						if err != nil {
							return fmt.Errorf("conf_id %d repetition %d: %w", confID, rep, err)
						}
						e.rows = append(e.rows, row)
					}
					confID++
				}
			}
		}
	}

	e.logger.Info("Experiment done",
		"name", e.conf.Name,
		"runs", len(e.rows),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func (e *Experiment) runOne(confID, rep int, pmF pmodel.Factory, selF selector.Factory, predF predictor.Factory, simT float64) (profiler.Result, error) {
	model, err := pmF()
	if err != nil {
		return nil, err
	}
	sel, err := selF()
	if err != nil {
		return nil, err
	}
	pred, err := predF()
	if err != nil {
		return nil, err
	}
	metrics := make([]errmetric.Metric, 0, len(e.metrics))
	for _, mF := range e.metrics {
		m, err := mF()
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}

	sel.Reinitialize(rep)

	p, err := profiler.New(model, sel, pred, metrics, e.measurementTime())
	if err != nil {
		return nil, err
	}
	p.SetLogger(e.logger)

	e.logger.Debug("Starting profiling run",
		"conf_id", confID,
		"repetition", rep,
		"sim_t_max", simT)
	row, err := p.Run(utils.SecondsToTime(simT))
	if err != nil {
		return nil, err
	}

	row["experiment"] = e.conf.Name
	row["conf_id"] = confID
	row["repetition_id"] = rep
	row["run_id"] = uuid.NewString()
	row["sim_t_max"] = simT
	return row, nil
}

// Rows returns the collected result rows
func (e *Experiment) Rows() []profiler.Result {
	return e.rows
}

// Store writes the collected rows as CSV to the given path. A path
// ending in .gz is gzip compressed. The header is the sorted union of
// all row keys; rows missing a key get an empty cell. An empty path
// skips persistence with a warning.
func (e *Experiment) Store(path string) error {
	if path == "" {
		e.logger.Warn("No result path configured. Results are not stored.")
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating result file: %w", err)
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err := writeCSV(w, e.rows); err != nil {
		f.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("closing gzip stream: %w", err)
		}
	}
	// a failed flush to disk surfaces here, not as a silent success
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing result file: %w", err)
	}

	e.logger.Info("Stored results", "path", path, "rows", len(e.rows))
	return nil
}

func writeCSV(w io.Writer, rows []profiler.Result) error {
	header := columnNames(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = formatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// columnNames returns the sorted union of all row keys
func columnNames(rows []profiler.Result) []string {
	seen := map[string]bool{}
	var names []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
