package bench

import "context"

// Hook is a lifecycle hook. A returned error fails its stage.
type Hook func(ctx context.Context) error

// HookFunc adapts a function without a context to a Hook.
func HookFunc(fn func() error) Hook {
	return func(context.Context) error { return fn() }
}
