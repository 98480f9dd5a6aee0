// Package geometry extracts the scalar pump-geometry parameters from a
// geometry.txt file.
//
// The file is semi-structured text: each target parameter (lK, lZ0, lKG,
// lSK) appears at the start of some line, followed eventually by a signed
// decimal number, possibly with units, extra columns or trailing comments
// on the same line. Parameters may appear in any order.
//
// The matching rules are data-driven (one compiled pattern per key in a
// small table), so adding a parameter means adding a table row, not new
// control flow. The parameter set itself is fixed at exactly four keys:
// extraction either yields all four values or fails naming the keys that
// were not found.
package geometry
