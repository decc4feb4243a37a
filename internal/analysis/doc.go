// Package analysis extracts orbit properties from recorded frames.
//
//   - [EstimateGyration]: cyclotron period, Larmor radius and guiding-centre
//     drift from the motion perpendicular to a field direction
//   - [DominantPeriod]: strongest periodic component of a series via FFT
//   - [Project]: 2D projection of the trajectory onto two output columns
//   - [Section]: interpolated crossings of a coordinate plane, e.g. the
//     equatorial bounces of a particle trapped in the dipole field
//
// All functions work on frames produced by the sampler or loaded from a
// stored run; none of them integrate.
package analysis
