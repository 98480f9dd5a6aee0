// Package scaler models the external mesh-scaling tool as an injectable
// capability.
//
// The pipeline only depends on the Runner interface, a function of the
// work-unit directory and its scalar file, so tests stub the scaler
// without invoking a real external tool. ExecRunner is the production
// implementation: it shells out via os/exec with the unit directory as
// working directory and consumes nothing but the process exit status.
package scaler
