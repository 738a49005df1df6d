// Package domain models synthetic precipitation motion scenarios and scores
// optical-flow estimates against known ground truth.
//
// # Grid Conventions
//
// All fields live on a rows × cols grid stored row-major in flat slices:
// index(r, c) = r*Cols + c. A Field pairs a value slice with an explicit
// validity mask of the same length; a masked-off cell means "unknown", which
// is distinct from a zero value ("no precipitation"). Invalid cells stay
// masked throughout sequence generation and are only materialized to zero at
// the very end, so downstream consumers never confuse the two.
//
// # Axis Order
//
// Motion is stored as named displacement planes rather than a positional
// (2, rows, cols) stack: U is displacement along the x axis (columns), V is
// displacement along the y axis (rows). The advection primitive consumes
// these named planes directly, so the (x,y)-versus-(row,col) swap that trips
// up positional conventions cannot occur silently.
//
// # Idealized Motion
//
// Three synthetic motion types are supported, all with speed 2 pixels per
// step:
//
//	linear-x:  u = 2, v = 0 everywhere
//	linear-y:  u = 0, v = 2 everywhere
//	rotor:     u = 2·(y−yc)/r, v = −2·(x−xc)/r around the grid center;
//	           pixels exactly on the center (r = 0) keep zero velocity
//
// # Scoring
//
// Estimates are compared to the ideal field only over a precipitation-region
// mask: the maximum-intensity projection of the sequence is box-smoothed,
// thresholded at a small positive intensity, and intersected with "valid at
// every timestep". The score is the relative root-mean-square error over that
// mask, reported as a percentage; a mask with zero ground-truth energy is a
// degenerate case surfaced as an explicit error, never as NaN or Inf.
package domain
