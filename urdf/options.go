package urdf

import (
	"io"
	"log/slog"
)

// DefaultInitialCapacity is the number of bytes allocated for a new graph.
const DefaultInitialCapacity = 512

// Option configures graph behavior.
type Option func(*options)

type options struct {
	initialCapacity int
	maxSize         int
	counter         *BNodeCounter
	logger          *slog.Logger
}

func defaultOptions() options {
	return options{initialCapacity: DefaultInitialCapacity}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.initialCapacity <= 0 {
		o.initialCapacity = DefaultInitialCapacity
	}
	if o.maxSize > 0 && o.initialCapacity > o.maxSize {
		o.initialCapacity = o.maxSize
	}
	if o.counter == nil {
		o.counter = &BNodeCounter{}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// WithInitialCapacity sets the number of bytes allocated up front.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		o.initialCapacity = n
	}
}

// WithMaxSize caps the size a graph buffer may grow to. Insertions that
// would exceed it fail with ErrMalloc and leave the graph unchanged.
// Zero means unlimited.
func WithMaxSize(n int) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// WithBNodeCounter shares a blank node counter between graphs, so that
// blank nodes created for different graphs of one session never collide.
func WithBNodeCounter(c *BNodeCounter) Option {
	return func(o *options) {
		o.counter = c
	}
}

// WithLogger sets the logger used for buffer growth and freeze diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
