// Package layout verifies the folder structure of a pump project before
// the pipeline mutates anything.
//
// A project base folder follows a fixed convention: the INP, simulation,
// influgen and Zscalar directories, geometry.txt in the base folder and
// piston_pr.inp inside INP. Verification is pure read-only inspection and
// reports every missing entry at once rather than stopping at the first,
// so a user can fix the whole layout in one pass.
package layout
