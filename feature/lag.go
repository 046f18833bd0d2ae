package feature

import (
	"fmt"
	"strconv"
	"strings"
)

// Lag is a component of a target or covariate series shifted by Lag time steps
type Lag struct {
	Component string `json:"component"`
	Class     Class  `json:"class"`
	Lag       int    `json:"lag"`
}

func NewLag(component string, class Class, lag int) *Lag {
	return &Lag{component, class, lag}
}

func (l Lag) String() string {
	return fmt.Sprintf("%s_%s_lag%d", l.Component, l.Class, l.Lag)
}

func (l Lag) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "component":
		return l.Component, true
	case "class":
		return l.Class.String(), true
	case "lag":
		return strconv.Itoa(l.Lag), true
	}
	return "", false
}

func (l Lag) Type() Class {
	return l.Class
}

func (l Lag) Decode() map[string]string {
	res := make(map[string]string)
	res["component"] = l.Component
	res["class"] = l.Class.String()
	res["lag"] = strconv.Itoa(l.Lag)
	return res
}
