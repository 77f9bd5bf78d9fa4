package poll

import "github.com/angristan/lifx-tui/internal/models"

// Mailbox hands snapshots to a single consumer. It holds at most one
// snapshot; a newer one replaces an unread older one.
type Mailbox struct {
	ch chan models.Snapshot
}

// NewMailbox creates an empty mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan models.Snapshot, 1)}
}

// Put stores a snapshot without blocking, dropping any unread one
func (m *Mailbox) Put(s models.Snapshot) {
	for {
		select {
		case m.ch <- s:
			return
		default:
		}
		select {
		case <-m.ch:
		default:
		}
	}
}

// C returns the channel the consumer reads from
func (m *Mailbox) C() <-chan models.Snapshot {
	return m.ch
}
