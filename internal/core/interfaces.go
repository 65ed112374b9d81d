package core

// Frame is a marshaled outbound event.
type Frame []byte

// ConnID identifies one live transport connection. Assigned by the
// adapter on upgrade, opaque to the core.
type ConnID string

// SignalConnection abstracts for a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats for a fan-out. Delivery is
// fire-and-forget: dropped frames are counted, never retried.
type PublishResult struct {
	SentTo  int
	Dropped int
}
