// Package solver integrates the built-in ODE systems locally and produces
// result payloads in the same shape a remote solver returns.
package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/odeview/internal/result"
)

// ParamLimit bounds every parameter and initial value.
const ParamLimit = 1e8

// ctxCheckEvery is how many steps pass between cancellation checks.
const ctxCheckEvery = 1024

type Options struct {
	T0, T1 float64
	Dt     float64
	// Y0 overrides the equation's initial state when non-nil.
	Y0 State
}

func DefaultOptions() Options {
	return Options{T0: 0, T1: 20, Dt: 0.01}
}

func (o Options) validate(eq Equation) error {
	if !(o.T1 > o.T0) {
		return fmt.Errorf("%w: t0=%g t1=%g", ErrTimeSpan, o.T0, o.T1)
	}
	if !(o.Dt > 0) || math.IsInf(o.Dt, 0) {
		return fmt.Errorf("%w: %g", ErrStep, o.Dt)
	}
	if o.Y0 != nil && len(o.Y0) != eq.Dim() {
		return fmt.Errorf("%w: got %d, %s needs %d", ErrDimension, len(o.Y0), eq.Name(), eq.Dim())
	}
	for k, v := range eq.GetParams() {
		if err := checkBound(k, v); err != nil {
			return err
		}
	}
	for i, v := range o.Y0 {
		if err := checkBound(fmt.Sprintf("y%d", i), v); err != nil {
			return err
		}
	}
	for name, v := range map[string]float64{"t0": o.T0, "t1": o.T1} {
		if err := checkBound(name, v); err != nil {
			return err
		}
	}
	return nil
}

func checkBound(name string, v float64) error {
	if math.IsNaN(v) || v < -ParamLimit || v > ParamLimit {
		return fmt.Errorf("%w: %s=%g outside [%g, %g]", ErrParameterBounds, name, v, -ParamLimit, ParamLimit)
	}
	return nil
}

// Solve integrates eq from T0 to T1 with fixed steps of Dt. The last step is
// shortened to land exactly on T1.
func Solve(ctx context.Context, eq Equation, integ Integrator, opts Options) ([]result.Sample, error) {
	if err := opts.validate(eq); err != nil {
		return nil, err
	}

	y := eq.Initial()
	if opts.Y0 != nil {
		y = opts.Y0.Clone()
	}

	steps := int(math.Ceil((opts.T1 - opts.T0) / opts.Dt))
	samples := make([]result.Sample, 0, steps+1)
	samples = append(samples, result.Sample{T: opts.T0, Values: y.Clone()})

	t := opts.T0
	for step := 1; t < opts.T1; step++ {
		if step%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &SolveError{Step: step, Time: t, Wrapped: err}
			}
		}

		h := math.Min(opts.Dt, opts.T1-t)
		y = integ.Step(eq, y, t, h)
		if step >= steps {
			t = opts.T1
		} else {
			t = opts.T0 + float64(step)*opts.Dt
		}

		if !y.IsValid() {
			return nil, &SolveError{Step: step, Time: t, Wrapped: ErrUnstable}
		}
		samples = append(samples, result.Sample{T: t, Values: y.Clone()})
	}

	return samples, nil
}

// Payload wraps samples in a success response body.
func Payload(samples []result.Sample) result.Payload {
	return result.Payload{Status: "success", Results: samples}
}
