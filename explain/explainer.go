// Package explain attributes the forecasts of a lag based regression model to its lagged
// features and returns the attributions as time series per horizon and target component.
package explain

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aouyang1/go-tsexplain/attribution"
	"github.com/aouyang1/go-tsexplain/lags"
	"github.com/aouyang1/go-tsexplain/models"
	"github.com/aouyang1/go-tsexplain/timeseries"
)

// ForecastingModel is a fitted model predicting Horizons() steps of TargetDim() components from
// a lagged feature matrix. Estimator output h*TargetDim()+c forecasts component c at horizon h.
type ForecastingModel interface {
	Lags() lags.Spec
	Horizons() int
	TargetDim() int
	TargetNames() []string
	Estimator() models.Estimator
}

// Result maps horizon -> target component name -> series of attributions with one component per
// feature
type Result map[int]map[string]*timeseries.TimeSeries

// Explainer computes feature attributions of a forecasting model against a background dataset
type Explainer struct {
	model       ForecastingModel
	background  lags.Data
	backgroundX *lags.Matrix
	layout      Layout
	combined    attribution.Engine
	perOutput   [][]attribution.Engine
	opt         *Options
}

// New builds the background feature matrix and one attribution engine per estimator. Models of
// kind multi_output get one engine per horizon and component, anything else a single engine.
func New(model ForecastingModel, background lags.Data, opt *Options) (*Explainer, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if model == nil || model.Estimator() == nil {
		return nil, ErrNoModel
	}
	if background.Empty() {
		return nil, ErrNoBackground
	}
	if names := background.Targets[0].Components(); !slices.Equal(names, model.TargetNames()) {
		return nil, fmt.Errorf("background targets %v, model targets %v, %w", names, model.TargetNames(), ErrFeatureMismatch)
	}

	spec := model.Lags()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	bgX, err := background.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("unable to build background matrix, %w", err)
	}
	if opt.BackgroundSamples > 0 {
		bgX = bgX.Sample(opt.BackgroundSamples, opt.Seed)
	}

	e := &Explainer{
		model:       model,
		background:  background,
		backgroundX: bgX,
		opt:         opt,
	}
	if err := e.checkFeatures(bgX); err != nil {
		return nil, err
	}

	est := model.Estimator()
	if est.Kind() == models.KindMultiOutput {
		if err := e.newPerOutput(est); err != nil {
			return nil, err
		}
		return e, nil
	}

	e.layout = LayoutCombined
	e.combined, err = e.newEngine(est)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Explainer) newPerOutput(est models.Estimator) error {
	mo, ok := est.(*models.MultiOutput)
	if !ok {
		return ErrNotMultiOutput
	}
	h, d := e.model.Horizons(), e.model.TargetDim()
	if mo.NumOutputs() != h*d {
		return fmt.Errorf("%d estimators for %d horizons and %d components, %w", mo.NumOutputs(), h, d, ErrShapeMismatch)
	}

	e.layout = LayoutPerOutput
	e.perOutput = make([][]attribution.Engine, h)
	for i := 0; i < h; i++ {
		e.perOutput[i] = make([]attribution.Engine, d)
		for j := 0; j < d; j++ {
			sub, err := mo.Estimator(d*i + j)
			if err != nil {
				return err
			}
			engine, err := e.newEngine(sub)
			if err != nil {
				return fmt.Errorf("horizon %d component %d, %w", i, j, err)
			}
			e.perOutput[i][j] = engine
		}
	}
	return nil
}

func (e *Explainer) newEngine(est models.Estimator) (attribution.Engine, error) {
	method, err := e.method(est.Kind())
	if err != nil {
		return nil, err
	}
	engine, err := attribution.New(method, est, e.backgroundX.X, e.backgroundX.Columns(), e.opt.Attribution)
	if err != nil {
		return nil, err
	}
	slog.Info("created attribution engine", "method", method.String(), "estimator", est.Kind())
	return engine, nil
}

// method resolves the requested method or the default of the estimator kind
func (e *Explainer) method(kind models.Kind) (attribution.Method, error) {
	if e.opt.Method == "" {
		return attribution.DefaultMethod(kind), nil
	}
	return attribution.ParseMethod(e.opt.Method)
}

func (e *Explainer) checkFeatures(m *lags.Matrix) error {
	_, n := m.Dims()
	if want := e.model.Estimator().NumFeatures(); n != want {
		return fmt.Errorf("matrix has %d columns, estimator expects %d, %w", n, want, ErrFeatureMismatch)
	}
	return nil
}

// Layout returns how the raw attributions of the model are organized
func (e *Explainer) Layout() Layout {
	return e.layout
}

// Background returns the rows the engines were calibrated against
func (e *Explainer) Background() *lags.Matrix {
	return e.backgroundX
}

func (e *Explainer) matrix(foreground lags.Data) (*lags.Matrix, error) {
	m, err := foreground.Build(e.model.Lags())
	if err != nil {
		return nil, err
	}
	if err := e.checkFeatures(m); err != nil {
		return nil, err
	}
	if !slices.Equal(m.Columns(), e.backgroundX.Columns()) {
		return nil, fmt.Errorf("foreground columns %v, background columns %v, %w", m.Columns(), e.backgroundX.Columns(), ErrFeatureMismatch)
	}
	return m, nil
}

// explainMatrix runs the engines on the rows of m and reassembles their output
func (e *Explainer) explainMatrix(m *lags.Matrix) (Attributions, error) {
	raw := Raw{Layout: e.layout}
	switch e.layout {
	case LayoutPerOutput:
		raw.PerOutput = make([][]*attribution.Explanation, len(e.perOutput))
		for i, byComp := range e.perOutput {
			raw.PerOutput[i] = make([]*attribution.Explanation, len(byComp))
			for j, engine := range byComp {
				exp, err := engine.Explain(m.X)
				if err != nil {
					return nil, fmt.Errorf("horizon %d component %d, %w", i, j, err)
				}
				raw.PerOutput[i][j] = exp
			}
		}
	default:
		exp, err := e.combined.Explain(m.X)
		if err != nil {
			return nil, err
		}
		raw.Combined = exp
	}
	return Reassemble(raw, e.model.Horizons(), e.model.TargetDim(), m.Columns(), m.Index)
}

// Attributions explains a single foreground series. An empty foreground explains the
// background series.
func (e *Explainer) Attributions(foreground lags.Data) (Attributions, error) {
	if foreground.Empty() {
		foreground = e.background
	}
	if len(foreground.Targets) > 1 {
		return nil, ErrMultipleSeries
	}
	m, err := e.matrix(foreground)
	if err != nil {
		return nil, err
	}
	return e.explainMatrix(m)
}

// Explain returns horizon -> target name -> attribution series of a single foreground series.
// An empty foreground explains the background series.
func (e *Explainer) Explain(foreground lags.Data) (Result, error) {
	attrs, err := e.Attributions(foreground)
	if err != nil {
		return nil, err
	}
	return e.toResult(attrs)
}

// ExplainSequence explains every foreground series separately, returning one result per series
func (e *Explainer) ExplainSequence(foreground lags.Data) ([]Result, error) {
	if foreground.Empty() {
		foreground = e.background
	}
	m, err := e.matrix(foreground)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(foreground.Targets))
	for s := range results {
		rows := m.SeriesRows(s)
		if len(rows) == 0 {
			return nil, fmt.Errorf("series %d, %w", s, lags.ErrEmptyMatrix)
		}
		attrs, err := e.explainMatrix(m.Rows(rows))
		if err != nil {
			return nil, fmt.Errorf("series %d, %w", s, err)
		}
		results[s], err = e.toResult(attrs)
		if err != nil {
			return nil, fmt.Errorf("series %d, %w", s, err)
		}
	}
	return results, nil
}

func (e *Explainer) toResult(attrs Attributions) (Result, error) {
	names := e.model.TargetNames()
	res := make(Result, len(attrs))
	for h, byComp := range attrs {
		res[h] = make(map[string]*timeseries.TimeSeries, len(byComp))
		for c, attr := range byComp {
			ts, err := attr.TimeSeries()
			if err != nil {
				return nil, fmt.Errorf("horizon %d target %s, %w", h, names[c], err)
			}
			res[h][names[c]] = ts
		}
	}
	return res, nil
}
