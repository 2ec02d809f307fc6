// Package layout computes node positions from graph topology.
//
// Two algorithms are provided:
//
//   - [Hierarchical]: a layered layout. Nodes are partitioned into ranks by
//     longest-path topological layering, ordered within each rank to reduce
//     edge crossings, and assigned coordinates so the rank index maps to the
//     primary axis of the chosen direction and the in-rank order maps to the
//     secondary axis.
//
//   - [Force]: an iterative force-directed layout with inverse-square
//     repulsion between all node pairs and linear attraction along edges.
//     It runs a fixed number of iterations with no damping or convergence
//     check and is best-effort: it guarantees neither non-overlap nor
//     stability.
//
// Both algorithms always terminate after a fixed amount of work and produce
// a position for every node, including isolated nodes and disconnected
// components. Neither touches edges; re-tagging edges with a connector style
// after layout is the caller's concern.
//
// Positions in the node model are top-left anchored. The layered algorithm
// computes center coordinates internally and translates them by
// (-width/2, -height/2) before returning.
package layout
