package events

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "Events")

// Feed publishes runtime events to subscribed channels.
type Feed interface {
	Send(interface{}) int
	Subscribe(interface{}) Subscription
}

type Subscription interface {
	Unsubscribe()
}

type eventSubscription struct {
	bus *Bus
	ch  reflect.Value
}

func (es *eventSubscription) Unsubscribe() {
	es.bus.unsubscribe(es.ch)
}

// Bus is a type-aware event feed. A subscriber registers a channel and only
// receives events assignable to the channel's element type, so one bus can
// carry every runtime event while subscribers pick the ones they care about.
// A channel of interface{} receives everything.
//
// Delivery never blocks block execution: an event that finds a subscriber's
// buffer full is dropped for that subscriber.
type Bus struct {
	once sync.Once
	lock sync.Mutex
	subs []reflect.Value
}

func (b *Bus) init() {
	b.subs = make([]reflect.Value, 0)
}

func (b *Bus) Subscribe(ch interface{}) Subscription {
	b.once.Do(b.init)

	b.lock.Lock()
	defer b.lock.Unlock()

	cval := reflect.ValueOf(ch)
	ctype := cval.Type()

	if ctype.Kind() != reflect.Chan || ctype.ChanDir() == reflect.SendDir {
		panic("Bad events feed subscriber")
	}

	b.subs = append(b.subs, cval)
	return &eventSubscription{ch: cval, bus: b}
}

func (b *Bus) unsubscribe(ch reflect.Value) {
	b.once.Do(b.init)

	b.lock.Lock()
	defer b.lock.Unlock()

	for i, c := range b.subs {
		if c == ch {
			last := len(b.subs) - 1
			b.subs[i] = b.subs[last]
			b.subs = b.subs[:last]
			return
		}
	}
}

// Send delivers the event to every matching subscriber and returns how many
// received it.
func (b *Bus) Send(data interface{}) int {
	b.once.Do(b.init)

	b.lock.Lock()
	subs := make([]reflect.Value, len(b.subs))
	copy(subs, b.subs)
	b.lock.Unlock()

	dval := reflect.ValueOf(data)
	sent := 0

	for _, ch := range subs {
		if !dval.Type().AssignableTo(ch.Type().Elem()) {
			continue
		}

		if ch.TrySend(dval) {
			sent++
			continue
		}

		log.Warnf("Dropping event %T for a slow subscriber", data)
	}

	return sent
}
