package layout

import (
	"math"

	"github.com/matzehuels/flowboard/pkg/model"
)

// ForceOptions configures the force-directed layout.
type ForceOptions struct {
	Iterations int     // fixed iteration count; the sole termination condition
	K          float64 // characteristic distance between nodes
	Repulsion  float64 // scales the inverse-square repulsive force
	Attraction float64 // scales the linear attractive force along edges
}

// DefaultForceOptions returns the constants the editor uses.
func DefaultForceOptions() ForceOptions {
	return ForceOptions{
		Iterations: 50,
		K:          180,
		Repulsion:  0.8,
		Attraction: 0.01,
	}
}

func (o ForceOptions) withDefaults() ForceOptions {
	d := DefaultForceOptions()
	if o.Iterations <= 0 {
		o.Iterations = d.Iterations
	}
	if o.K <= 0 {
		o.K = d.K
	}
	if o.Repulsion <= 0 {
		o.Repulsion = d.Repulsion
	}
	if o.Attraction <= 0 {
		o.Attraction = d.Attraction
	}
	return o
}

// Force runs an iterative force-directed layout and returns a new node slice
// with updated positions. The input is not modified.
//
// Per iteration, every node pair exerts an inverse-square repulsive force
// scaled by Repulsion and K, every edge pulls its endpoints together with a
// force linear in their distance scaled by Attraction, and each node is
// translated by its net force vector. There is no damping and no convergence
// check. The result is best-effort: overlap-free or stable output is not
// guaranteed.
func Force(nodes []model.Node, edges []model.Edge, opts ForceOptions) []model.Node {
	opts = opts.withDefaults()
	out := model.CloneNodes(nodes)
	if len(out) < 2 {
		return out
	}

	idx := make(map[string]int, len(out))
	for i, n := range out {
		idx[n.ID] = i
	}

	fx := make([]float64, len(out))
	fy := make([]float64, len(out))

	for it := 0; it < opts.Iterations; it++ {
		for i := range fx {
			fx[i], fy[i] = 0, 0
		}

		// Pairwise repulsion.
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				dx := out[i].Position.X - out[j].Position.X
				dy := out[i].Position.Y - out[j].Position.Y
				distSq := dx*dx + dy*dy
				if distSq == 0 {
					// Coincident nodes: push apart along a fixed axis so the
					// pass stays deterministic.
					dx, distSq = 1, 1
				}
				dist := math.Sqrt(distSq)
				f := opts.Repulsion * opts.K * opts.K / distSq
				fx[i] += f * dx / dist
				fy[i] += f * dy / dist
				fx[j] -= f * dx / dist
				fy[j] -= f * dy / dist
			}
		}

		// Linear attraction along edges. Self-loops and edges to unknown
		// nodes contribute nothing.
		for _, e := range edges {
			si, ok1 := idx[e.Source]
			ti, ok2 := idx[e.Target]
			if !ok1 || !ok2 || si == ti {
				continue
			}
			dx := out[ti].Position.X - out[si].Position.X
			dy := out[ti].Position.Y - out[si].Position.Y
			fx[si] += opts.Attraction * dx
			fy[si] += opts.Attraction * dy
			fx[ti] -= opts.Attraction * dx
			fy[ti] -= opts.Attraction * dy
		}

		for i := range out {
			out[i].Position.X += fx[i]
			out[i].Position.Y += fy[i]
		}
	}

	return out
}
