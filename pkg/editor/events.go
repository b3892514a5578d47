package editor

// EventKind classifies a change notification.
type EventKind string

const (
	EventStore     EventKind = "store"
	EventView      EventKind = "view"
	EventSelection EventKind = "selection"
	EventHistory   EventKind = "history"
	EventPhotos    EventKind = "photos"
	// EventRetake asks the front end to replace the photo in Event.Slot.
	EventRetake EventKind = "retake"
)

// Event is delivered to subscribers.
type Event struct {
	Kind EventKind
	Slot int
}

// Subscribe registers fn and returns a function that removes it.
func (e *Editor) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.subsMu.Lock()
		defer e.subsMu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Editor) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	e.subsMu.Lock()
	fns := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subsMu.Unlock()
	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

func kinds(ks ...EventKind) []Event {
	out := make([]Event, len(ks))
	for i, k := range ks {
		out[i] = Event{Kind: k, Slot: -1}
	}
	return out
}
