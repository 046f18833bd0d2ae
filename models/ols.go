package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type OLSOptions struct {
	FitIntercept bool `json:"fit_intercept" yaml:"fit_intercept"`
}

func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
	}
}

// Validate returns the default options if none are set
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		return NewDefaultOLSOptions(), nil
	}
	return o, nil
}

// OLSRegression computes ordinary least squares using QR factorization. Every column of the
// target matrix is fit jointly, producing one output per column.
type OLSRegression struct {
	linearWeights
	opt *OLSOptions
}

func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

func (o *OLSRegression) Fit(x, y mat.Matrix) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	if err := validateTraining(x, y); err != nil {
		return err
	}

	design := mat.DenseCopyOf(x)
	if o.opt.FitIntercept {
		design = withOnes(x)
	}
	m, n := design.Dims()
	if m < n {
		return fmt.Errorf("%d observations for %d coefficients, %w", m, n, ErrUnderdetermined)
	}

	qr := new(mat.QR)
	qr.Factorize(design)

	var c mat.Dense
	if err := qr.SolveTo(&c, false, y); err != nil {
		return fmt.Errorf("unable to solve least squares, %w", err)
	}

	_, k := c.Dims()
	if o.opt.FitIntercept {
		o.intercept = mat.Row(nil, 0, &c)
		o.coef = mat.DenseCopyOf(c.Slice(1, n, 0, k))
		return nil
	}
	o.intercept = make([]float64, k)
	o.coef = mat.DenseCopyOf(&c)
	return nil
}

func (o *OLSRegression) Predict(x mat.Matrix) (*mat.Dense, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	return o.predict(x)
}

// Score returns the coefficient of determination averaged across outputs
func (o *OLSRegression) Score(x, y mat.Matrix) (float64, error) {
	if o.opt == nil {
		return 0.0, ErrNoOptions
	}
	return score(o, x, y)
}

func (o *OLSRegression) Kind() Kind {
	return KindOLS
}
