package progress

// Sink consumes progress events. The hub delivers events from a single
// goroutine, in emission order; implementations only need to guard state
// they also expose to other readers.
type Sink interface {
	Consume(evt Event)
}
