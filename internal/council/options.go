package council

import "go.uber.org/zap"

// Option configures a Council. Use With* functions to create Options.
type Option func(*councilOptions)

type councilOptions struct {
	reporter Reporter
	logger   *zap.Logger
	runID    string
}

// WithReporter sets the receiver of progress events.
func WithReporter(r Reporter) Option {
	return func(o *councilOptions) { o.reporter = r }
}

// WithLogger sets the logger. The council logs under the "council" name.
func WithLogger(l *zap.Logger) Option {
	return func(o *councilOptions) { o.logger = l }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *councilOptions) { o.runID = id }
}
