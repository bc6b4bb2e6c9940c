// Package notify sends a desktop notification summarizing killed processes.
package notify

import (
	"fmt"
	"strings"

	"procstop/process"

	"github.com/gen2brain/beeep"
)

// Title is used for every notification
const Title = "procstop"

// Notifier delivers one notification
type Notifier interface {
	Notify(title, message string) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(title, message string) error

func (f NotifierFunc) Notify(title, message string) error {
	return f(title, message)
}

// Desktop returns a Notifier backed by beeep
func Desktop() Notifier {
	return NotifierFunc(func(title, message string) error {
		return beeep.Notify(title, message, "")
	})
}

// Message summarizes killed processes, e.g. "Killed 2 processes: calc.exe (512), notepad.exe (600)"
func Message(killed []process.Outcome) string {
	parts := make([]string, 0, len(killed))
	for _, o := range killed {
		parts = append(parts, fmt.Sprintf("%s (%d)", o.Name, o.PID))
	}

	noun := "processes"
	if len(killed) == 1 {
		noun = "process"
	}
	return fmt.Sprintf("Killed %d %s: %s", len(killed), noun, strings.Join(parts, ", "))
}

// Killed notifies about the killed outcomes. Nothing is sent when the list is empty.
func Killed(n Notifier, killed []process.Outcome) error {
	if len(killed) == 0 {
		return nil
	}
	return n.Notify(Title, Message(killed))
}
