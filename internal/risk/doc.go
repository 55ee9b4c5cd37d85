// Package risk turns a declarative network description into a risk report.
//
// Scoring is a single synchronous pass: the network is validated, every
// service and node contributes points and findings in declaration order, and
// the total is mapped onto a severity tier by its ratio to the theoretical
// ceiling of 13 points per node.
//
// # Per-service points
//
//   - public:          +3
//   - unencrypted:     +3
//   - unauthenticated: +2
//   - criticality:     +1..5, always
//
// A node without services scores a flat 2 points (a visibility gap).
//
// # Severity
//
// The ratio score/max_score selects the tier: >= 0.75 critical, >= 0.50
// high, >= 0.25 medium, otherwise low. The ceiling is fixed per node, so a
// node with many services can push the ratio above 1.0; it is not clamped.
//
// # Thread Safety
//
// Reports are immutable values and every function here is pure, so
// independent networks can be scored from separate goroutines.
package risk
