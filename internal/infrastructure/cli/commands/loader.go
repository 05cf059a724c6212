package commands

import (
	"context"
	"errors"

	"github.com/doeshing/diarisk/internal/app"
)

// ErrContainerUnavailable is returned when a command runs without a loader.
var ErrContainerUnavailable = errors.New("container unavailable")

// Loader builds the container on first use so that persistent flags such as
// --config are parsed before the config file is read.
type Loader struct {
	Options app.Options

	container *app.Container
	closed    bool
}

// NewLoader builds a Loader.
func NewLoader(opts app.Options) *Loader {
	return &Loader{Options: opts}
}

// Container returns the memoized container.
func (l *Loader) Container(ctx context.Context) (*app.Container, error) {
	if l == nil {
		return nil, ErrContainerUnavailable
	}
	if l.container != nil {
		return l.container, nil
	}
	container, err := app.BuildContainer(ctx, l.Options)
	if err != nil {
		return nil, err
	}
	l.container = container
	return container, nil
}

// Close releases the container if one was built. It is safe to call twice.
func (l *Loader) Close() {
	if l == nil || l.closed {
		return
	}
	l.closed = true
	if l.container != nil {
		l.container.Close()
	}
}

// Closed reports whether Close has run.
func (l *Loader) Closed() bool {
	return l != nil && l.closed
}
