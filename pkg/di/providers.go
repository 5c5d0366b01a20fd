package di

import (
	"github.com/fleetup/fleetup/pkg/svc/provider"
	"github.com/fleetup/fleetup/pkg/svc/provider/hetzner"
	"github.com/fleetup/fleetup/pkg/svc/salt"
	"github.com/fleetup/fleetup/pkg/ui/timer"
	"github.com/samber/do/v2"
)

// ProviderFactory builds a cloud provider from an API token.
type ProviderFactory func(token string) provider.Provider

// DispatcherFactory builds a Salt dispatcher for a salt-api endpoint.
type DispatcherFactory func(baseURL, username, password string) salt.Dispatcher

// NewRuntime constructs the shared runtime container used by the root
// command and tests. It registers default implementations for the timer,
// the cloud provider factory and the dispatcher factory.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideProviderFactory,
		provideDispatcherFactory,
	)
}

// provideTimer registers the timer dependency with the injector.
func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

// provideProviderFactory registers the Hetzner provider factory.
func provideProviderFactory(i Injector) error {
	do.Provide(i, func(Injector) (ProviderFactory, error) {
		return func(token string) provider.Provider {
			return hetzner.NewProviderFromToken(token)
		}, nil
	})

	return nil
}

// provideDispatcherFactory registers the salt-api dispatcher factory.
func provideDispatcherFactory(i Injector) error {
	do.Provide(i, func(Injector) (DispatcherFactory, error) {
		return func(baseURL, username, password string) salt.Dispatcher {
			return salt.NewAPIClient(baseURL, username, password)
		}, nil
	})

	return nil
}
