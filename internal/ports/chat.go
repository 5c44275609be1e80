package ports

import "context"

// ChatTransport hands out connections to the game channel.
type ChatTransport interface {
	// AwaitConnection blocks until the channel is connected or ctx is done.
	AwaitConnection(ctx context.Context) (ChatConnection, error)
}

// ChatConnection is one connected session on the game channel.
type ChatConnection interface {
	// Events delivers inbound chat events in arrival order.
	Events() <-chan Received
	// Done is closed when the connection drops.
	Done() <-chan struct{}
	// SendMessage broadcasts text to the channel.
	SendMessage(ctx context.Context, text string) error
	// SendNotice sends text privately to one nick.
	SendNotice(ctx context.Context, nick, text string) error
}

// Received is an inbound chat event.
type Received interface {
	received()
}

// ReceivedMessage is a line of text said on the channel.
type ReceivedMessage struct {
	Sender string
	Text   string
}

// ReceivedDeparture is a part, kick or quit.
type ReceivedDeparture struct {
	Nick string
}

// ReceivedRename is a nick change.
type ReceivedRename struct {
	OldNick string
	NewNick string
}

func (ReceivedMessage) received()   {}
func (ReceivedDeparture) received() {}
func (ReceivedRename) received()    {}
