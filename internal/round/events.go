package round

import "driftroad/internal/drive"

type EventType int

const (
	EventRoundStarted EventType = iota
	EventTurn
	EventFall
	EventRoundWon
	EventRoundLost
)

func (t EventType) String() string {
	switch t {
	case EventRoundStarted:
		return "started"
	case EventTurn:
		return "turn"
	case EventFall:
		return "fall"
	case EventRoundWon:
		return "won"
	case EventRoundLost:
		return "lost"
	}
	return "unknown"
}

type Event struct {
	Type    EventType
	Level   int
	Seed    uint64
	Pressed bool         // EventTurn
	Result  drive.Result // EventRoundWon, EventRoundLost
}

type EventHandler func(Event)

// EventBus delivers events synchronously, in subscription order.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
