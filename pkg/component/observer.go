package component

import "time"

// Observer receives lifecycle notifications from a Manager.
// Methods are called synchronously on the manager's goroutine.
type Observer interface {
	ComponentInitialized(tag string)
	ComponentDestroyed(tag string)
	InitFailed(err error)
	PassCompleted(r Report, elapsed time.Duration)
}

// NopObserver implements Observer with no-ops. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) ComponentInitialized(string)         {}
func (NopObserver) ComponentDestroyed(string)           {}
func (NopObserver) InitFailed(error)                    {}
func (NopObserver) PassCompleted(Report, time.Duration) {}

// observers fans notifications out in registration order.
type observers []Observer

func (o observers) initialized(tag string) {
	for _, ob := range o {
		ob.ComponentInitialized(tag)
	}
}

func (o observers) destroyed(tag string) {
	for _, ob := range o {
		ob.ComponentDestroyed(tag)
	}
}

func (o observers) failed(err error) {
	for _, ob := range o {
		ob.InitFailed(err)
	}
}

func (o observers) passCompleted(r Report, elapsed time.Duration) {
	for _, ob := range o {
		ob.PassCompleted(r, elapsed)
	}
}
