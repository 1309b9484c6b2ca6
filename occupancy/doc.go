// Package occupancy holds the per-node occupancy state of an octree.
//
// A Value stores a single log-odds scalar. Log-odds make Bayesian fusion of
// independent observations additive: each sensor update is applied with
// AddValue, and the occupancy probability is recovered with the logistic
// transform p = 1 / (1 + exp(-l)).
//
// A Node carries one Value, an RGB color used by color trees, and up to eight
// exclusively owned children, one per octant index 0-7.
//
// # Saturation
//
// Log-odds are saturated to [-LogOddsLimit, LogOddsLimit]. Repeated updates
// therefore never reach infinity and Probability always lies strictly inside
// (0, 1) in float64 arithmetic.
//
// # Empty aggregates
//
// MeanChildLogOdds and MaxChildLogOdds return NoChildLogOdds for a node without
// children. The sentinel is below -LogOddsLimit, so it never collides with a
// stored value.
//
// # Thread Safety
//
// Values and nodes are not synchronized. Callers must not mutate a tree while
// another goroutine reads it.
package occupancy
