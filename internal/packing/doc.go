// Package packing places boxes inside a shipping container with a greedy,
// largest-first heuristic.
//
// Units are seated one at a time: the first in the origin corner, later ones
// on top of an already placed box where possible, otherwise at the first
// free cell of a fixed-step grid. Nothing backtracks, so the result is a
// deterministic function of the item list and container. Units that cannot
// be seated are returned separately, laid out beside the container.
package packing
