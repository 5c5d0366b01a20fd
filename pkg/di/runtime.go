// Package di wires shared dependencies (timer, provider factory, dispatcher
// factory) into a samber/do container shared by the root command and tests.
package di

import "github.com/samber/do/v2"

// Injector aliases the do injector so callers do not import do directly.
type Injector = do.Injector

// Provider registers one dependency with the injector.
type Provider func(Injector) error

// Runtime owns the dependency container for one command tree.
type Runtime struct {
	injector do.Injector
}

// New creates a runtime and applies the given providers. Provider
// registration cannot fail at construction time; errors surface on Invoke.
func New(providers ...Provider) *Runtime {
	injector := do.New()

	runtime := &Runtime{injector: injector}

	for _, provide := range providers {
		// do.Provide only records the constructor; nothing is built yet.
		_ = provide(injector)
	}

	return runtime
}

// Invoke runs fn with the runtime's injector.
func (r *Runtime) Invoke(fn func(Injector) error) error {
	return fn(r.injector)
}
