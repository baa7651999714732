package events

// Buffer collects events during one unit of work so they can be published
// atomically or dropped together. Not safe for concurrent use.
type Buffer struct {
	pending []interface{}
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Emit(event interface{}) {
	b.pending = append(b.pending, event)
}

// FlushTo publishes the buffered events in emission order and clears the
// buffer.
func (b *Buffer) FlushTo(feed Feed) {
	for _, event := range b.pending {
		feed.Send(event)
	}
	b.pending = nil
}

// Drop discards the buffered events.
func (b *Buffer) Drop() {
	b.pending = nil
}

// FeedSink publishes every emitted event straight to the feed.
type FeedSink struct {
	Feed Feed
}

func (s FeedSink) Emit(event interface{}) {
	s.Feed.Send(event)
}
