package app

// InputKind identifies the variant of an Input.
type InputKind int

const (
	InputCommand InputKind = iota
	InputDeparture
	InputRename
	InputExpiry
)

// String names the kind in logs.
func (k InputKind) String() string {
	switch k {
	case InputCommand:
		return "command"
	case InputDeparture:
		return "departure"
	case InputRename:
		return "rename"
	case InputExpiry:
		return "expiry"
	default:
		return "unknown"
	}
}

// Input is something that happened to a match: chat text, a player going away,
// a nick change, or the current deadline passing.
type Input interface {
	Kind() InputKind
}

// Command is a line of chat text from Sender.
type Command struct {
	Sender string
	Text   string
}

// Departure covers parts, kicks and quits.
type Departure struct {
	Nick string
}

// Rename is a nick change.
type Rename struct {
	Old string
	New string
}

// Expiry fires when the match deadline passes with no other input.
type Expiry struct{}

func (Command) Kind() InputKind   { return InputCommand }
func (Departure) Kind() InputKind { return InputDeparture }
func (Rename) Kind() InputKind    { return InputRename }
func (Expiry) Kind() InputKind    { return InputExpiry }
