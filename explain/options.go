package explain

import (
	"github.com/aouyang1/go-tsexplain/attribution"
)

// Options configures an Explainer
type Options struct {
	// Method forces an attribution method for every estimator. When empty the method is picked
	// from the estimator kind.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// BackgroundSamples subsamples the background matrix to at most this many rows. 0 keeps every row.
	BackgroundSamples int `json:"background_samples,omitempty" yaml:"background_samples,omitempty"`

	// Seed drives background subsampling
	Seed uint64 `json:"seed" yaml:"seed"`

	Attribution *attribution.Options `json:"attribution,omitempty" yaml:"attribution,omitempty"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Attribution: attribution.NewDefaultOptions(),
	}
}

// Validate returns the default options if none are set and resolves the attribution options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.BackgroundSamples < 0 {
		return nil, ErrNegativeSamples
	}
	if o.Method != "" {
		if _, err := attribution.ParseMethod(o.Method); err != nil {
			return nil, err
		}
	}
	attrOpt, err := o.Attribution.Validate()
	if err != nil {
		return nil, err
	}

	res := *o
	res.Attribution = attrOpt
	return &res, nil
}
