package solver

import (
	"fmt"
	"sort"
)

// Integrator advances y by one step of size dt.
type Integrator interface {
	Step(eq Equation, y State, t, dt float64) State
}

type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Step(eq Equation, y State, t, dt float64) State {
	dy := eq.Derive(t, y)
	out := make(State, len(y))
	for i := range y {
		out[i] = y[i] + dt*dy[i]
	}
	return out
}

// RK2 is Heun's second-order method.
type RK2 struct {
	scratch State
}

func NewRK2() *RK2 { return &RK2{} }

func (r *RK2) Step(eq Equation, y State, t, dt float64) State {
	n := len(y)
	if len(r.scratch) != n {
		r.scratch = make(State, n)
	}

	k1 := eq.Derive(t, y)
	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*k1[i]
	}
	k2 := eq.Derive(t+dt, r.scratch)

	out := make(State, n)
	for i := 0; i < n; i++ {
		out[i] = y[i] + dt*0.5*(k1[i]+k2[i])
	}
	return out
}

type RK4 struct {
	k1, k2, k3, k4 State
	scratch        State
}

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(State, n)
		r.k2 = make(State, n)
		r.k3 = make(State, n)
		r.k4 = make(State, n)
		r.scratch = make(State, n)
	}
}

func (r *RK4) Step(eq Equation, y State, t, dt float64) State {
	n := len(y)
	r.ensureScratch(n)

	copy(r.k1, eq.Derive(t, y))

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*0.5*r.k1[i]
	}
	copy(r.k2, eq.Derive(t+dt*0.5, r.scratch))

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*0.5*r.k2[i]
	}
	copy(r.k3, eq.Derive(t+dt*0.5, r.scratch))

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*r.k3[i]
	}
	copy(r.k4, eq.Derive(t+dt, r.scratch))

	out := make(State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		out[i] = y[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return out
}

var methods = map[string]func() Integrator{
	"euler": func() Integrator { return NewEuler() },
	"rk2":   func() Integrator { return NewRK2() },
	"rk4":   func() Integrator { return NewRK4() },
}

func NewIntegrator(name string) (Integrator, error) {
	ctor, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return ctor(), nil
}

func Methods() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
