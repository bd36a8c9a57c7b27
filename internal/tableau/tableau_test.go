package tableau_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odelab/internal/ode"
	"github.com/san-kum/odelab/internal/tableau"
)

// decay is du/dt = -u, with u(t) = u0 * exp(-t).
func decay(t float64, u ode.State, stage int) ode.State {
	return u.Scale(-1)
}

var _ = Describe("registered tableaus", func() {
	for _, name := range tableau.Names() {
		name := name

		Describe(name, func() {
			var tb *tableau.Tableau

			BeforeEach(func() {
				var err error
				tb, err = tableau.ByName(name)
				Expect(err).NotTo(HaveOccurred())
			})

			It("has consistent dimensions", func() {
				s := tb.Stages()
				Expect(tb.A).To(HaveLen(s))
				for _, row := range tb.A {
					Expect(row).To(HaveLen(s))
				}
				for _, row := range tb.B {
					Expect(row).To(HaveLen(s))
				}
				Expect(tb.C).To(HaveLen(s))
				if tb.CError != nil {
					Expect(tb.CError).To(HaveLen(s))
				}
			})

			It("is strictly explicit", func() {
				Expect(tb.IsExplicit()).To(BeTrue())
			})

			It("starts its stages at the step time", func() {
				Expect(tb.C[0]).To(BeZero())
			})

			It("has weight rows summing to one", func() {
				for _, row := range tb.B {
					sum := 0.0
					for _, w := range row {
						sum += w
					}
					Expect(sum).To(BeNumerically("~", 1.0, 1e-12))
				}
			})

			It("is adaptive exactly when B has two rows", func() {
				Expect(tb.IsAdaptive()).To(Equal(len(tb.B) == 2))
			})

			It("declares one order per weight row", func() {
				Expect(tb.Order).To(HaveLen(len(tb.B)))
			})
		})
	}
})

var _ = Describe("FSAL detection", func() {
	It("holds for Dormand-Prince", func() {
		Expect(tableau.DoPri5().IsFSAL()).To(BeTrue())
	})

	It("does not hold for the classical fourth-order method", func() {
		Expect(tableau.RK4().IsFSAL()).To(BeFalse())
	})

	It("does not hold for Fehlberg", func() {
		// Fehlberg's last stage sits at c = 1/2, not at the step end.
		Expect(tableau.Fehlberg().IsFSAL()).To(BeFalse())
	})
})

var _ = Describe("stepping", func() {
	u0 := ode.State{1.0}

	It("forward Euler takes the exact explicit step", func() {
		res := tableau.FEuler().Step(decay, 0, 0.1, u0, nil)
		Expect(res.U[0]).To(Equal(0.9))
		Expect(res.Evals).To(Equal(1))
	})

	It("RK4 matches the analytic solution to 1e-6 in one step", func() {
		res := tableau.RK4().Step(decay, 0, 0.1, u0, nil)
		Expect(res.U[0]).To(BeNumerically("~", math.Exp(-0.1), 1e-6))
		Expect(res.Evals).To(Equal(4))
	})

	It("leaves the input state untouched", func() {
		u := ode.State{1.0, 2.0}
		osc := func(t float64, u ode.State, stage int) ode.State {
			return ode.State{u[1], -u[0]}
		}
		tableau.RK4().Step(osc, 0, 0.1, u, nil)
		Expect(u).To(Equal(ode.State{1.0, 2.0}))
	})

	It("reuses a supplied first-stage derivative", func() {
		tb := tableau.DoPri5()
		k0 := decay(0, u0, 0)
		res, err := tb.StepWithError(decay, 0, 0.1, u0, k0)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Evals).To(Equal(tb.Stages() - 1))

		full, err := tb.StepWithError(decay, 0, 0.1, u0, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(full.Evals).To(Equal(tb.Stages()))
		Expect(res.U[0]).To(Equal(full.U[0]))
	})

	It("reports the first and last stage derivatives", func() {
		res := tableau.FEuler().Step(decay, 0, 0.1, u0, nil)
		Expect(res.First[0]).To(Equal(-1.0))
		Expect(res.Last[0]).To(Equal(-1.0))
	})
})

var _ = Describe("error-controlled stepping", func() {
	u0 := ode.State{1.0}

	It("fails with a usage error on a fixed-step tableau", func() {
		u := ode.State{1.0}
		_, err := tableau.RK4().StepWithError(decay, 0, 0.1, u, nil)
		Expect(err).To(MatchError(tableau.ErrNotAdaptive))
		Expect(u).To(Equal(ode.State{1.0}))
	})

	It("estimates the embedded error by differencing the weight rows", func() {
		res, err := tableau.Fehlberg().StepWithError(decay, 0, 0.1, u0, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Err).To(HaveLen(1))
		Expect(res.Err[0]).NotTo(BeZero())
		// The 4(5) pair's local error estimate is O(dt^5).
		Expect(math.Abs(res.Err[0])).To(BeNumerically("<", 1e-6))
	})

	It("agrees between the dedicated and differenced error paths", func() {
		withCErr := tableau.DoPri5()
		res1, err := withCErr.StepWithError(decay, 0, 0.1, u0, nil)
		Expect(err).NotTo(HaveOccurred())

		diffed := tableau.DoPri5()
		diffed.CError = nil
		res2, err := diffed.StepWithError(decay, 0, 0.1, u0, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(res1.Err[0]).To(BeNumerically("~", res2.Err[0], 1e-15))
		Expect(res1.U[0]).To(Equal(res2.U[0]))
	})

	It("propagates with the primary weight row", func() {
		res, err := tableau.DoPri5().StepWithError(decay, 0, 0.1, u0, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.U[0]).To(BeNumerically("~", math.Exp(-0.1), 1e-9))
	})
})
