package navigation

import "time"

type Command string

const (
	CommandMoveForward Command = "MOVE_FORWARD"
	CommandTurnLeft    Command = "TURN_LEFT"
	CommandTurnRight   Command = "TURN_RIGHT"
	CommandStop        Command = "STOP"
)

func (c Command) Valid() bool {
	switch c {
	case CommandMoveForward, CommandTurnLeft, CommandTurnRight, CommandStop:
		return true
	}
	return false
}

// DecisionEntry is immutable once recorded. A newer decision for the same
// room supersedes it in the latest slot; history keeps both.
type DecisionEntry struct {
	Sequence   uint64    `json:"sequence"`
	Room       string    `json:"room"`
	Command    Command   `json:"command"`
	Message    string    `json:"message,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Source     string    `json:"source,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type DestinationEntry struct {
	Room        string    `json:"room"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Label       string    `json:"label,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
