package solver

import (
	"fmt"
	"math"
	"sort"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Equation is an autonomous or time-driven first-order ODE system y' = f(t, y).
type Equation interface {
	Name() string
	Title() string
	Formula() string
	Dim() int
	Derive(t float64, y State) State
	Initial() State
	GetParams() map[string]float64
	SetParam(key string, value float64) error
}

type VanDerPol struct {
	Mu, P float64
}

func NewVanDerPol() *VanDerPol { return &VanDerPol{Mu: 6, P: 1} }

func (v *VanDerPol) Name() string  { return "vanderpol" }
func (v *VanDerPol) Title() string { return "VanDerPol" }
func (v *VanDerPol) Formula() string {
	return "y0' = y1\ny1' = (mu (1 - y0^2) y1 - y0) / p"
}
func (v *VanDerPol) Dim() int       { return 2 }
func (v *VanDerPol) Initial() State { return State{2, 0} }

func (v *VanDerPol) Derive(t float64, y State) State {
	return State{
		y[1],
		(v.Mu*(1-y[0]*y[0])*y[1] - y[0]) / v.P,
	}
}

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{"mu": v.Mu, "p": v.P}
}

func (v *VanDerPol) SetParam(key string, value float64) error {
	switch key {
	case "mu":
		v.Mu = value
	case "p":
		if value == 0 {
			return fmt.Errorf("%w: p must be non-zero", ErrParameterBounds)
		}
		v.P = value
	default:
		return fmt.Errorf("%w: %s has no %q", ErrUnknownParam, v.Name(), key)
	}
	return nil
}

// ForcedOscillator is a damped harmonic oscillator driven by F cos(omega_k t).
type ForcedOscillator struct {
	Omega, Gamma, F, OmegaK float64
}

func NewForcedOscillator() *ForcedOscillator {
	return &ForcedOscillator{Omega: 2, Gamma: 0.1, F: 1, OmegaK: 1.5}
}

func (f *ForcedOscillator) Name() string  { return "forced" }
func (f *ForcedOscillator) Title() string { return "ForcedOscillator" }
func (f *ForcedOscillator) Formula() string {
	return "y0' = y1\ny1' = -omega^2 y0 - gamma y1 + F cos(omega_k t)"
}
func (f *ForcedOscillator) Dim() int       { return 2 }
func (f *ForcedOscillator) Initial() State { return State{1, 0} }

func (f *ForcedOscillator) Derive(t float64, y State) State {
	return State{
		y[1],
		-f.Omega*f.Omega*y[0] - f.Gamma*y[1] + f.F*math.Cos(f.OmegaK*t),
	}
}

func (f *ForcedOscillator) GetParams() map[string]float64 {
	return map[string]float64{"omega": f.Omega, "gamma": f.Gamma, "F": f.F, "omega_k": f.OmegaK}
}

func (f *ForcedOscillator) SetParam(key string, value float64) error {
	switch key {
	case "omega":
		f.Omega = value
	case "gamma":
		f.Gamma = value
	case "F":
		f.F = value
	case "omega_k":
		f.OmegaK = value
	default:
		return fmt.Errorf("%w: %s has no %q", ErrUnknownParam, f.Name(), key)
	}
	return nil
}

// Robertson is the three-species chemical kinetics system.
type Robertson struct {
	K1, K2, K3 float64
}

func NewRobertson() *Robertson { return &Robertson{K1: 0.04, K2: 100, K3: 3e5} }

func (r *Robertson) Name() string  { return "robertson" }
func (r *Robertson) Title() string { return "RobertsonSystem" }
func (r *Robertson) Formula() string {
	return "y0' = -k1 y0 + k2 y1 y2\ny1' = k1 y0 - k2 y1 y2 - k3 y1^2\ny2' = k3 y1^2"
}
func (r *Robertson) Dim() int       { return 3 }
func (r *Robertson) Initial() State { return State{1, 0, 0} }

func (r *Robertson) Derive(t float64, y State) State {
	return State{
		-r.K1*y[0] + r.K2*y[1]*y[2],
		r.K1*y[0] - r.K2*y[1]*y[2] - r.K3*y[1]*y[1],
		r.K3 * y[1] * y[1],
	}
}

func (r *Robertson) GetParams() map[string]float64 {
	return map[string]float64{"k1": r.K1, "k2": r.K2, "k3": r.K3}
}

func (r *Robertson) SetParam(key string, value float64) error {
	switch key {
	case "k1":
		r.K1 = value
	case "k2":
		r.K2 = value
	case "k3":
		r.K3 = value
	default:
		return fmt.Errorf("%w: %s has no %q", ErrUnknownParam, r.Name(), key)
	}
	return nil
}

var equations = map[string]func() Equation{
	"vanderpol": func() Equation { return NewVanDerPol() },
	"forced":    func() Equation { return NewForcedOscillator() },
	"robertson": func() Equation { return NewRobertson() },
}

// NewEquation returns a fresh equation with default parameters.
func NewEquation(name string) (Equation, error) {
	ctor, ok := equations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEquation, name)
	}
	return ctor(), nil
}

func Equations() []string {
	names := make([]string, 0, len(equations))
	for name := range equations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
