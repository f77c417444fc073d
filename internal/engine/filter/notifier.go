package filter

import "rosview/internal/shared/observability"

type observer struct {
	id int
	fn func()
}

// notifier is a payload-free change signal. Not safe for concurrent use.
type notifier struct {
	observers []observer
	nextID    int
}

// Subscribe registers fn and returns a function that removes it again.
func (n *notifier) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	n.nextID++
	id := n.nextID
	n.observers = append(n.observers, observer{id: id, fn: fn})
	return func() { n.unsubscribe(id) }
}

func (n *notifier) unsubscribe(id int) {
	for i, o := range n.observers {
		if o.id == id {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}

func (n *notifier) emit() {
	observability.FilterChangesTotal.Inc()
	// Snapshot so observers may unsubscribe while being notified.
	snapshot := make([]observer, len(n.observers))
	copy(snapshot, n.observers)
	for _, o := range snapshot {
		o.fn()
	}
}
