package explain

import (
	"errors"
)

var (
	ErrNoModel            = errors.New("no forecasting model")
	ErrNoBackground       = errors.New("no background series")
	ErrFeatureMismatch    = errors.New("feature matrix columns do not match the estimator features")
	ErrNotMultiOutput     = errors.New("estimator of kind multi_output does not expose its per output estimators")
	ErrMultipleSeries     = errors.New("foreground holds several series, use ExplainSequence")
	ErrUnknownTarget      = errors.New("unknown target component")
	ErrHorizonOutOfRange  = errors.New("horizon is out of range")
	ErrNegativeSamples    = errors.New("number of samples cannot be negative")
	ErrShapeMismatch      = errors.New("attribution shape mismatch")
	ErrMissingExplanation = errors.New("missing explanation for horizon and component")
	ErrInvalidLayout      = errors.New("invalid attribution layout")
	ErrInvalidDimensions  = errors.New("horizons and target dimension must be positive")
)
