// Package expand generates and populates the per-scale-factor work units
// of a batch.
//
// For each scale factor it derives a deterministic folder name under
// simulation/, creates the folder and its template sub-folder, copies the
// baseline template file in (overwriting unconditionally, so re-running
// converges to the same end state), seeds the unit's scalar file from the
// base Zscalar template when absent, and invokes the external mesh
// scaler.
//
// Work units are independent: each owns its folder exclusively, one
// unit's failure never aborts its siblings, and units are processed by a
// bounded worker pool. Units whose scale factors collide on the same
// folder name are serialized in table order so the later one overwrites
// the earlier one deterministically.
package expand
