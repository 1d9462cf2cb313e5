package output

import (
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
)

// StatusObserver receives workflow notifications. The engine has no
// knowledge of any UI store; callers supply an observer and own all
// cross-component notification.
type StatusObserver interface {
	// OnStatusChange is called after every persisted state transition
	OnStatusChange(n *narrative.Narrative)

	// OnDegraded is called when a run starts in a degraded configuration,
	// e.g. with zero prep briefs. The run is not blocked.
	OnDegraded(n *narrative.Narrative, reason string)
}

// NopObserver discards all notifications
type NopObserver struct{}

func (NopObserver) OnStatusChange(*narrative.Narrative) {}
func (NopObserver) OnDegraded(*narrative.Narrative, string) {}

// StatusObserverFunc adapts a function to a StatusObserver that ignores
// degraded-run notifications
type StatusObserverFunc func(n *narrative.Narrative)

func (f StatusObserverFunc) OnStatusChange(n *narrative.Narrative) { f(n) }
func (f StatusObserverFunc) OnDegraded(*narrative.Narrative, string) {}
