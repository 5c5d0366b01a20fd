package di

import (
	"fmt"

	"github.com/fleetup/fleetup/pkg/ui/timer"
	"github.com/samber/do/v2"
)

// Dependency resolvers.

// ResolveTimer retrieves the timer dependency from the injector with
// consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveProviderFactory retrieves the cloud provider factory dependency.
func ResolveProviderFactory(injector Injector) (ProviderFactory, error) {
	factory, err := do.Invoke[ProviderFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve provider factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveDispatcherFactory retrieves the dispatcher factory dependency.
func ResolveDispatcherFactory(injector Injector) (DispatcherFactory, error) {
	factory, err := do.Invoke[DispatcherFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve dispatcher factory dependency: %w", err)
	}

	return factory, nil
}
