package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
)

func finite(c *physics.Chain) bool {
	for i := 0; i < c.Len(); i++ {
		p := c.Particle(i)
		if !p.Pos.IsValid() || !p.Vel.IsValid() {
			return false
		}
	}
	return true
}

var _ = Describe("Rope", func() {
	var solver physics.SpringSolver

	BeforeEach(func() {
		solver = physics.NewSpringSolver()
	})

	Describe("construction", func() {
		It("rejects a single particle", func() {
			_, err := physics.NewChain(1, 1.0)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
		})

		It("accepts two particles", func() {
			c, err := physics.NewChain(2, 1.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Positions()).To(HaveLen(2))
		})
	})

	Describe("stepping", func() {
		It("keeps an undamped pair at rest length in place", func() {
			c, _ := physics.NewChain(2, 1.0)
			before := c.Positions()

			Expect(solver.Step(c, dynamo.Params{Stiffness: 500, RestLength: 1, Damping: 1, TimeStep: 0.01})).To(Succeed())

			Expect(c.Positions()).To(Equal(before))
		})

		It("never changes the particle count", func() {
			c, _ := physics.NewChain(dynamo.DefaultParticles, 1.0)
			for i := 0; i < 50; i++ {
				Expect(solver.Step(c, dynamo.DefaultParams())).To(Succeed())
				Expect(c.Positions()).To(HaveLen(dynamo.DefaultParticles))
			}
		})

		It("survives coincident neighbours without NaN", func() {
			c, _ := physics.FromPositions([]dynamo.Vec2{{}, {}, {}, dynamo.V(0, 1)})
			for i := 0; i < 10; i++ {
				Expect(solver.Step(c, dynamo.DefaultParams())).To(Succeed())
			}
			Expect(finite(c)).To(BeTrue())
		})

		It("pulls a stretched pair together without overshoot", func() {
			p := dynamo.Params{Stiffness: 500, RestLength: 1, Damping: 1, TimeStep: 0.01}
			c, _ := physics.FromPositions([]dynamo.Vec2{dynamo.V(0, 0), dynamo.V(0, 1.5)})
			before := c.Extensions(p.RestLength)[0]

			Expect(solver.Step(c, p)).To(Succeed())

			after := c.Extensions(p.RestLength)[0]
			Expect(math.Abs(after)).To(BeNumerically("<", math.Abs(before)))
			Expect(after).To(BeNumerically(">", 0))
		})

		It("applies gravity and integrates position without springs", func() {
			p := dynamo.Params{Stiffness: 0, RestLength: 1, Damping: 1, Gravity: 10, TimeStep: 0.1}
			c, _ := physics.FromPositions([]dynamo.Vec2{dynamo.V(0, 0), dynamo.V(0, 1), dynamo.V(0, 2)})
			vBefore := c.Particle(2).Vel.Y

			Expect(solver.Step(c, p)).To(Succeed())

			end := c.Particle(2)
			Expect(end.Vel.Y - vBefore).To(Equal(1.0))
			Expect(end.Pos).To(Equal(dynamo.V(0, 3)))
		})

		It("integrates the controlled particle from the position set by the host", func() {
			c, _ := physics.NewChain(dynamo.DefaultParticles, 1.0)
			target := dynamo.V(500, 500)

			c.SetControlledPosition(target)
			Expect(solver.Step(c, dynamo.DefaultParams())).To(Succeed())

			end := c.Particle(c.Len() - 1)
			Expect(end.Pos).To(Equal(target.Add(end.Vel)))
		})
	})

	Describe("damping bounds", func() {
		It("accepts zero damping and keeps only the gravity term", func() {
			p := dynamo.DefaultParams()
			p.Damping = 0
			c, _ := physics.NewChain(5, 1.0)
			c.SetControlledPosition(dynamo.V(3, 9))

			Expect(solver.Step(c, p)).To(Succeed())

			end := c.Particle(c.Len() - 1)
			Expect(end.Vel.X).To(BeZero())
			Expect(end.Vel.Y).To(Equal(p.Gravity * p.TimeStep))
		})

		It("rejects damping above one", func() {
			p := dynamo.DefaultParams()
			p.Damping = 1.5
			c, _ := physics.NewChain(5, 1.0)

			Expect(solver.Step(c, p)).To(MatchError(dynamo.ErrInvalidParameter))
		})
	})
})
