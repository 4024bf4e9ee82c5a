package test

import "go.uber.org/fx"

// LifecycleRecorder collects hooks appended during tests so they can be
// driven by hand.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append stores the hook without running it.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub signals on Called whenever a component requests an app
// shutdown.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown records the invocation; it never fails.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called == nil {
		return nil
	}
	select {
	case s.Called <- struct{}{}:
	default:
	}
	return nil
}
