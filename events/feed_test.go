package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type pingEvent struct{ n int }
type pongEvent struct{ n int }

func TestBusRoutesByType(t *testing.T) {
	bus := new(Bus)

	pings := make(chan *pingEvent, 4)
	pongs := make(chan *pongEvent, 4)
	all := make(chan interface{}, 4)

	bus.Subscribe(pings)
	bus.Subscribe(pongs)
	bus.Subscribe(all)

	require.Equal(t, 2, bus.Send(&pingEvent{n: 1}))
	require.Equal(t, 2, bus.Send(&pongEvent{n: 2}))

	require.Len(t, pings, 1)
	require.Len(t, pongs, 1)
	require.Len(t, all, 2)

	require.Equal(t, 1, (<-pings).n)
	require.Equal(t, 2, (<-pongs).n)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := new(Bus)

	ch := make(chan *pingEvent, 1)
	sub := bus.Subscribe(ch)

	require.Equal(t, 1, bus.Send(&pingEvent{}))

	sub.Unsubscribe()
	require.Zero(t, bus.Send(&pingEvent{}))
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := new(Bus)

	ch := make(chan *pingEvent, 1)
	bus.Subscribe(ch)

	require.Equal(t, 1, bus.Send(&pingEvent{n: 1}))
	// Buffer full now, the event is dropped instead of blocking.
	require.Zero(t, bus.Send(&pingEvent{n: 2}))
	require.Equal(t, 1, (<-ch).n)
}

func TestBusBuffer(t *testing.T) {
	bus := new(Bus)

	ch := make(chan interface{}, 4)
	bus.Subscribe(ch)

	buf := NewBuffer()
	buf.Emit(&pingEvent{n: 1})
	buf.Emit(&pongEvent{n: 2})
	require.Empty(t, ch)

	buf.FlushTo(bus)
	require.Len(t, ch, 2)

	buf.Emit(&pingEvent{n: 3})
	buf.Drop()
	buf.FlushTo(bus)
	require.Len(t, ch, 2)
}
