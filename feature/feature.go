// Package feature names the columns of a lagged feature matrix. Every column is a Lag feature
// identified by the source component, the class of series it was taken from and the lag offset.
package feature

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownClass = errors.New("unknown feature class")

// Class is the kind of series a feature is taken from
type Class int

const (
	ClassTarget Class = iota
	ClassPastCovariate
	ClassFutureCovariate
)

// Classes lists every feature class in matrix column order
var Classes = []Class{ClassTarget, ClassPastCovariate, ClassFutureCovariate}

func (c Class) String() string {
	switch c {
	case ClassTarget:
		return "target"
	case ClassPastCovariate:
		return "past_cov"
	case ClassFutureCovariate:
		return "fut_cov"
	}
	return "unknown"
}

// ParseClass converts the string form of a class back into a Class
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(s) {
	case "target":
		return ClassTarget, nil
	case "past_cov", "past":
		return ClassPastCovariate, nil
	case "fut_cov", "future":
		return ClassFutureCovariate, nil
	}
	return 0, fmt.Errorf("%q, %w", s, ErrUnknownClass)
}

type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() Class
}
