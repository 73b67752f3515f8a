package log

import (
	"fmt"

	"github.com/xsort/xsort/strutil"
)

// Message is an interface to print structured logs.
type Message interface {
	fmt.Stringer
	JSON() string
}

// ErrorMessage is a generic message structure for unsuccessful operations.
type ErrorMessage struct {
	Operation string `json:"operation,omitempty"`
	Command   string `json:"command,omitempty"`
	Err       string `json:"error"`
}

// String is the string representation of ErrorMessage.
func (e ErrorMessage) String() string {
	if e.Command == "" {
		return e.Err
	}
	return fmt.Sprintf("%q: %v", e.Command, e.Err)
}

// JSON is the JSON representation of ErrorMessage.
func (e ErrorMessage) JSON() string {
	return strutil.JSON(e)
}

// InfoMessage is a generic message structure for successful operations.
type InfoMessage struct {
	Operation string `json:"operation"`
	Detail    string `json:"detail,omitempty"`
}

// String is the string representation of InfoMessage.
func (i InfoMessage) String() string {
	if i.Detail == "" {
		return i.Operation
	}
	return fmt.Sprintf("%v: %v", i.Operation, i.Detail)
}

// JSON is the JSON representation of InfoMessage.
func (i InfoMessage) JSON() string {
	return strutil.JSON(i)
}

// DebugMessage carries low-volume progress detail, e.g. per-chunk events.
type DebugMessage struct {
	Operation string `json:"operation"`
	Detail    string `json:"detail,omitempty"`
}

func (d DebugMessage) String() string {
	if d.Detail == "" {
		return d.Operation
	}
	return fmt.Sprintf("%v: %v", d.Operation, d.Detail)
}

func (d DebugMessage) JSON() string {
	return strutil.JSON(d)
}
