package render_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odeview/internal/axis"
	"github.com/san-kum/odeview/internal/render"
	"github.com/san-kum/odeview/internal/result"
	"github.com/san-kum/odeview/internal/viewport"
)

type recorder struct {
	frames []render.Frame
	err    error
	during func()
}

func (r *recorder) Render(f render.Frame) error {
	r.frames = append(r.frames, f)
	if r.during != nil {
		r.during()
	}
	return r.err
}

func projection(name string, n int) axis.Projection {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{float64(i), float64(i * i)}
	}
	r, err := result.FromRows([]string{"t", "y0"}, rows)
	Expect(err).NotTo(HaveOccurred())
	return axis.Projection{Name: name, Result: r, XIndex: 0, YIndex: 1}
}

var _ = Describe("Scheduler", func() {
	var (
		rec   *recorder
		sched *render.Scheduler
		req   render.Request
	)

	BeforeEach(func() {
		rec = &recorder{}
		var err error
		sched, err = render.NewScheduler(rec, nil)
		Expect(err).NotTo(HaveOccurred())

		req = render.Request{
			Ranges:      []viewport.Range{{Min: 0, Max: 100}},
			YRange:      viewport.Range{Min: 0, Max: 10000},
			Padding:     0.05,
			Budget:      20,
			XAxis:       "t",
			YAxis:       "y0",
			Projections: []axis.Projection{projection("A", 101), projection("B", 10)},
		}
	})

	It("rejects a nil renderer", func() {
		_, err := render.NewScheduler(nil, nil)
		Expect(err).To(MatchError(render.ErrNilRenderer))
	})

	It("renders on the first tick", func() {
		out, err := sched.Tick(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(render.OutcomeRendered))
		Expect(rec.frames).To(HaveLen(1))

		f := rec.frames[0]
		Expect(f.XRange).To(Equal(viewport.Range{Min: -5, Max: 105}))
		Expect(f.XAxis).To(Equal("t"))
		Expect(f.Series).To(HaveLen(2))
		Expect(f.Series[0].Name).To(Equal("A"))
		Expect(len(f.Series[0].Points)).To(BeNumerically("<=", 20))
		Expect(f.Series[1].Points).To(HaveLen(10))
	})

	It("skips a tick whose range did not change", func() {
		_, _ = sched.Tick(req)
		out, err := sched.Tick(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(render.OutcomeSkipped))
		Expect(rec.frames).To(HaveLen(1))
		Expect(sched.Stats()).To(Equal(render.Stats{Ticks: 2, Renders: 1, Skipped: 1}))
	})

	It("renders again when the range moves", func() {
		_, _ = sched.Tick(req)
		req.Ranges = []viewport.Range{{Min: 10, Max: 100}}
		Expect(sched.Tick(req)).To(Equal(render.OutcomeRendered))
		Expect(rec.frames).To(HaveLen(2))
	})

	It("uses the union of every axis control", func() {
		req.Ranges = []viewport.Range{{Min: 10, Max: 20}, {Min: math.NaN(), Max: 1}, {Min: 0, Max: 15}}
		req.Padding = 0
		Expect(sched.Tick(req)).To(Equal(render.OutcomeRendered))
		Expect(rec.frames[0].XRange).To(Equal(viewport.Range{Min: 0, Max: 20}))
	})

	It("renders an unchanged range after Invalidate", func() {
		_, _ = sched.Tick(req)
		sched.Invalidate()
		Expect(sched.Tick(req)).To(Equal(render.OutcomeRendered))
		Expect(sched.Tick(req)).To(Equal(render.OutcomeSkipped))
		Expect(rec.frames).To(HaveLen(2))
	})

	It("keeps an Invalidate that arrives during a render", func() {
		rec.during = sched.Invalidate
		_, _ = sched.Tick(req)
		rec.during = nil
		Expect(sched.Tick(req)).To(Equal(render.OutcomeRendered))
	})

	It("leaves an Invalidate after a snapshot for the next tick", func() {
		_, _ = sched.Tick(req)
		sched.Invalidate()

		snap := req
		snap.Force = sched.TakeForce()
		Expect(snap.Force).To(BeTrue())

		// state changes after the snapshot was taken
		sched.Invalidate()
		Expect(sched.TickSnapshot(snap)).To(Equal(render.OutcomeRendered))

		next := req
		next.Force = sched.TakeForce()
		Expect(next.Force).To(BeTrue())
		Expect(sched.TickSnapshot(next)).To(Equal(render.OutcomeRendered))

		idle := req
		idle.Force = sched.TakeForce()
		Expect(sched.TickSnapshot(idle)).To(Equal(render.OutcomeSkipped))
		Expect(rec.frames).To(HaveLen(3))
	})

	It("re-arms a forced snapshot that is dropped", func() {
		_, _ = sched.Tick(req)

		forced := req
		forced.Force = true
		var inner render.Outcome
		rec.during = func() {
			inner, _ = sched.TickSnapshot(forced)
		}
		sched.Invalidate()
		_, _ = sched.Tick(req)
		rec.during = nil

		Expect(inner).To(Equal(render.OutcomeDropped))
		Expect(sched.TakeForce()).To(BeTrue())
	})

	It("drops a tick that arrives while rendering", func() {
		var inner render.Outcome
		rec.during = func() {
			inner, _ = sched.Tick(req)
		}
		Expect(sched.Tick(req)).To(Equal(render.OutcomeRendered))
		Expect(inner).To(Equal(render.OutcomeDropped))
		Expect(rec.frames).To(HaveLen(1))
		Expect(sched.Stats().Dropped).To(Equal(uint64(1)))
		Expect(sched.State()).To(Equal(render.Idle))
	})

	It("retries after a renderer error", func() {
		rec.err = errors.New("terminal gone")
		out, err := sched.Tick(req)
		Expect(out).To(Equal(render.OutcomeFailed))
		Expect(err).To(MatchError(ContainSubstring("terminal gone")))

		rec.err = nil
		Expect(sched.Tick(req)).To(Equal(render.OutcomeRendered))
		Expect(rec.frames).To(HaveLen(2))
	})

	It("rejects an invalid budget without losing a forced render", func() {
		_, _ = sched.Tick(req)
		sched.Invalidate()

		bad := req
		bad.Budget = 0
		out, err := sched.Tick(bad)
		Expect(out).To(Equal(render.OutcomeFailed))
		Expect(errors.Is(err, viewport.ErrInvalidBudget)).To(BeTrue())

		Expect(sched.Tick(req)).To(Equal(render.OutcomeRendered))
	})

	It("reports no viewport without any valid range", func() {
		req.Ranges = nil
		Expect(sched.Tick(req)).To(Equal(render.OutcomeNoViewport))
		Expect(rec.frames).To(BeEmpty())
	})

	It("names outcomes", func() {
		Expect(render.OutcomeSkipped.String()).To(Equal("skipped"))
		Expect(render.Outcome(42).String()).To(Equal("outcome(42)"))
		Expect(render.Rendering.String()).To(Equal("rendering"))
	})
})
