// Package serve starts a flow as a local HTTP app. A flow directory
// carries a manifest naming its runtime language; each language gets its
// own helper behind a shared lifecycle interface.
package serve

import "context"

// AppHelper controls the lifecycle of one serve app.
type AppHelper interface {
	// StartInMain runs the serve app in the foreground until it exits or
	// the context is canceled.
	StartInMain(ctx context.Context) error
	// Start spawns the serve app in the background.
	Start(ctx context.Context) error
	// Terminate stops a serve app started in the background and waits
	// for it to exit.
	Terminate() error
}
