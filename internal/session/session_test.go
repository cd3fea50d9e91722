package session_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odeview/internal/config"
	"github.com/san-kum/odeview/internal/render"
	"github.com/san-kum/odeview/internal/result"
	"github.com/san-kum/odeview/internal/session"
	"github.com/san-kum/odeview/internal/store"
	"github.com/san-kum/odeview/internal/viewport"
)

type frames struct {
	mu  sync.Mutex
	all []render.Frame
}

func (f *frames) Render(fr render.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.all = append(f.all, fr)
	return nil
}

func (f *frames) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.all)
}

func (f *frames) last() render.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.all[len(f.all)-1]
}

func mustRows(axes []string, rows [][]float64) *result.Columnar {
	r, err := result.FromRows(axes, rows)
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Session", func() {
	var (
		out *frames
		s   *session.Session
		a   *result.Columnar
		b   *result.Columnar
	)

	BeforeEach(func() {
		out = &frames{}
		var err error
		s, err = session.New(config.Default(), out, nil)
		Expect(err).NotTo(HaveOccurred())

		a = mustRows([]string{"t", "y0"}, [][]float64{{0, 0}, {1, 1}, {2, 4}})
		b = mustRows([]string{"t", "y0", "y1"}, [][]float64{{0, 0, 0}, {1, 1, 2}})
	})

	Context("with no results", func() {
		It("has no selection and the default view", func() {
			x, y := s.Selection()
			Expect(x).To(BeEmpty())
			Expect(y).To(BeEmpty())
			Expect(s.View()).To(Equal(session.DefaultView))
		})

		It("renders an empty frame once", func() {
			Expect(s.Tick()).To(Equal(render.OutcomeRendered))
			Expect(out.last().Series).To(BeEmpty())
			Expect(s.Tick()).To(Equal(render.OutcomeSkipped))
		})

		It("keeps the view when fitting", func() {
			Expect(s.ResetZoom()).To(MatchError(viewport.ErrEmptyDataSet))
			Expect(s.View()).To(Equal(session.DefaultView))
		})
	})

	Context("adding results", func() {
		BeforeEach(func() {
			Expect(s.AddResult("A", a)).To(Succeed())
		})

		It("selects the first two axes", func() {
			x, y := s.Selection()
			Expect(x).To(Equal("t"))
			Expect(y).To(Equal("y0"))
		})

		It("fits the first result with the coarse padding", func() {
			v := s.View()
			Expect(v.X.Min).To(BeNumerically("~", -0.6, 1e-9))
			Expect(v.X.Max).To(BeNumerically("~", 2.6, 1e-9))
			Expect(v.Y.Min).To(BeNumerically("~", -1.2, 1e-9))
			Expect(v.Y.Max).To(BeNumerically("~", 5.2, 1e-9))
		})

		It("fits later results with the fit padding", func() {
			Expect(s.AddResult("B", b)).To(Succeed())
			v := s.View()
			Expect(v.X.Min).To(BeNumerically("~", -0.2, 1e-9))
			Expect(v.X.Max).To(BeNumerically("~", 2.2, 1e-9))
		})

		It("rejects duplicate names and leaves the store unchanged", func() {
			Expect(s.AddResult("A", b)).To(MatchError(store.ErrDuplicateName))
			Expect(s.Names()).To(Equal([]string{"A"}))
		})

		It("auto-names payloads", func() {
			name, err := s.AddPayload("VanDerPol", b)
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("2. VanDerPol"))
			Expect(s.Names()).To(Equal([]string{"A", "2. VanDerPol"}))
		})

		It("renders both results on the shared axes", func() {
			Expect(s.AddResult("B", b)).To(Succeed())
			Expect(s.Tick()).To(Equal(render.OutcomeRendered))

			f := out.last()
			Expect(f.XAxis).To(Equal("t"))
			Expect(f.YAxis).To(Equal("y0"))
			Expect(f.Series).To(HaveLen(2))
			Expect(f.Series[0].Name).To(Equal("A"))
			Expect(f.Series[1].Name).To(Equal("B"))
		})

		It("skips results missing the selected axis", func() {
			Expect(s.AddResult("B", b)).To(Succeed())
			Expect(s.SelectAxes("t", "y1")).To(Succeed())

			warnings := s.Warnings()
			Expect(warnings).To(HaveLen(1))
			Expect(warnings[0].Result).To(Equal("A"))

			Expect(s.Tick()).To(Equal(render.OutcomeRendered))
			Expect(out.last().Series).To(HaveLen(1))
			Expect(out.last().Series[0].Name).To(Equal("B"))
		})

		It("rejects unknown axes", func() {
			Expect(s.SelectAxes("t", "z")).NotTo(Succeed())
			x, y := s.Selection()
			Expect([]string{x, y}).To(Equal([]string{"t", "y0"}))
		})
	})

	Context("ticking", func() {
		BeforeEach(func() {
			Expect(s.AddResult("A", a)).To(Succeed())
			Expect(s.Tick()).To(Equal(render.OutcomeRendered))
		})

		It("does not re-render an unchanged viewport", func() {
			before := out.count()
			Expect(s.Tick()).To(Equal(render.OutcomeSkipped))
			Expect(s.Tick()).To(Equal(render.OutcomeSkipped))
			Expect(out.count()).To(Equal(before))
		})

		It("re-renders after zooming", func() {
			Expect(s.ZoomIn()).To(Succeed())
			Expect(s.Tick()).To(Equal(render.OutcomeRendered))
		})

		It("zooms about the midpoint", func() {
			before := s.View()
			Expect(s.Zoom(0.5)).To(Succeed())
			after := s.View()
			Expect(after.X.Mid()).To(BeNumerically("~", before.X.Mid(), 1e-9))
			Expect(after.X.Span()).To(BeNumerically("~", before.X.Span()/2, 1e-9))
		})

		It("rejects a bad zoom factor", func() {
			Expect(s.Zoom(0)).To(MatchError(session.ErrInvalidFactor))
			Expect(s.Zoom(math.NaN())).To(MatchError(session.ErrInvalidFactor))
		})

		It("re-renders after panning", func() {
			Expect(s.Pan(0.1)).To(Succeed())
			Expect(s.Tick()).To(Equal(render.OutcomeRendered))
		})

		It("forces a render when the quality changes", func() {
			Expect(s.SetQuality("high")).To(Succeed())
			Expect(s.Budget()).To(Equal(400))
			Expect(s.Tick()).To(Equal(render.OutcomeRendered))
		})

		It("rejects unknown quality presets", func() {
			Expect(s.SetQuality("ultra")).To(MatchError(session.ErrUnknownQuality))
			Expect(s.SetPointBudget(0)).To(MatchError(viewport.ErrInvalidBudget))
			Expect(s.Budget()).To(Equal(200))
		})

		It("clears the selection and forces a render on clear", func() {
			s.Clear()
			x, y := s.Selection()
			Expect(x).To(BeEmpty())
			Expect(y).To(BeEmpty())
			Expect(s.Count()).To(BeZero())

			Expect(s.Tick()).To(Equal(render.OutcomeRendered))
			Expect(out.last().Series).To(BeEmpty())
		})

		It("forces a render after removing a result", func() {
			Expect(s.RemoveResult("A")).To(BeTrue())
			Expect(s.RemoveResult("A")).To(BeFalse())
			Expect(s.Tick()).To(Equal(render.OutcomeRendered))
		})

		It("clamps the view to the coordinate limit", func() {
			Expect(s.SetView(viewport.Box{
				X: viewport.Range{Min: -1e12, Max: 1e12},
				Y: viewport.Range{Min: 0, Max: 1},
			})).To(Succeed())
			Expect(s.View().X).To(Equal(viewport.Range{Min: -session.ViewLimit, Max: session.ViewLimit}))
		})

		It("rejects an inverted view", func() {
			Expect(s.SetView(viewport.Box{
				X: viewport.Range{Min: 1, Max: 0},
				Y: viewport.Range{Min: 0, Max: 1},
			})).To(MatchError(session.ErrInvalidView))
		})
	})

	It("caps every series at the point budget", func() {
		rows := make([][]float64, 5000)
		for i := range rows {
			rows[i] = []float64{float64(i), math.Sin(float64(i) / 100)}
		}
		Expect(s.AddResult("long", mustRows([]string{"t", "y0"}, rows))).To(Succeed())
		Expect(s.SetQuality("low")).To(Succeed())
		Expect(s.Tick()).To(Equal(render.OutcomeRendered))
		Expect(len(out.last().Series[0].Points)).To(BeNumerically("<=", 100))
	})

	It("handles concurrent mutation and ticking", func() {
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for j := 0; j < 50; j++ {
					_, _ = s.AddPayload("run", a)
					_, _ = s.Tick()
					_ = s.ZoomOut()
				}
			}()
		}
		wg.Wait()
		Expect(s.Count()).To(Equal(200))

		_, _ = s.Tick()
		names := make([]string, 0, 200)
		for _, sr := range out.last().Series {
			names = append(names, sr.Name)
		}
		Expect(names).To(Equal(s.Names()))
	})

	It("draws the final state when mutations race with ticks", func() {
		Expect(s.AddResult("A", a)).To(Succeed())

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, _ = s.Tick()
			}
		}()
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Clear()
				Expect(s.AddResult("A", a)).To(Succeed())
			}
			s.Clear()
		}()
		wg.Wait()

		_, _ = s.Tick()
		Expect(s.Count()).To(Equal(0))
		Expect(out.last().Series).To(BeEmpty())
	})
})
