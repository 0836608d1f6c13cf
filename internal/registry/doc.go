// Package registry holds the execution backends available to one
// application instance and the shared types they speak: job handles,
// status reports, and scheduler run options.
package registry
