// ABOUTME: Pending commands understood by the dispatch loop, plus their CLI words
// ABOUTME: and the JSON envelope used to forward a command to a running instance.

package command

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Command is one unit of work for the dispatch loop. Every input source
// (hotkey, tray, forwarded CLI invocation) reduces to one of these.
type Command int

const (
	// Toggle switches to whichever preset is not currently default
	Toggle Command = iota
	// SetA switches to preset A (the "speakers" slot)
	SetA
	// SetB switches to preset B (the "headphones" slot)
	SetB
	// Reconfigure re-runs the setup wizard with the dispatch loop paused
	Reconfigure
	// Exit shuts the running instance down
	Exit
)

func (c Command) String() string {
	switch c {
	case Toggle:
		return "toggle"
	case SetA:
		return "set-a"
	case SetB:
		return "set-b"
	case Reconfigure:
		return "reconfigure"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// CLIWords lists the words accepted on the command line, for usage text
var CLIWords = []string{"toggle", "speakers", "headphones"}

// FromCLI maps a command-line word to a Command.
// Only the switching commands are reachable from the CLI; reconfigure and
// exit belong to the tray menu of the running instance.
func FromCLI(word string) (Command, error) {
	switch word {
	case "toggle":
		return Toggle, nil
	case "speakers":
		return SetA, nil
	case "headphones":
		return SetB, nil
	default:
		return Toggle, fmt.Errorf("unknown command: %s", word)
	}
}

// Envelope is the wire form of a forwarded command. The ID correlates the
// forwarding process's log lines with the running instance's.
type Envelope struct {
	ID      string `json:"id"`
	Command string `json:"command"`
}

// Encode wraps a command in an envelope with a fresh correlation ID
func Encode(cmd Command) ([]byte, string, error) {
	env := Envelope{
		ID:      uuid.NewString(),
		Command: cmd.String(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode command envelope: %w", err)
	}
	return data, env.ID, nil
}

// Decode parses an envelope and returns the command and correlation ID
func Decode(data []byte) (Command, string, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Toggle, "", fmt.Errorf("failed to decode command envelope: %w", err)
	}

	var cmd Command
	switch env.Command {
	case "toggle":
		cmd = Toggle
	case "set-a":
		cmd = SetA
	case "set-b":
		cmd = SetB
	case "reconfigure":
		cmd = Reconfigure
	case "exit":
		cmd = Exit
	default:
		return Toggle, env.ID, fmt.Errorf("unknown command in envelope: %q", env.Command)
	}
	return cmd, env.ID, nil
}
