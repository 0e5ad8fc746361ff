package portplan

import (
	"fmt"
	"strings"
)

// Kind classifies a configuration error.
// Kind implements error so that errors.Is(e, InconsistentConfig) matches any *Error of that kind.
type Kind int

// Kind values.
const (
	_ Kind = iota
	MalformedInput
	CapacityExceeded
	InconsistentConfig
	InvalidDevice
	ResourceExhausted
)

func (k Kind) String() string {
	switch k {
	case MalformedInput:
		return "MalformedInput"
	case CapacityExceeded:
		return "CapacityExceeded"
	case InconsistentConfig:
		return "InconsistentConfig"
	case InvalidDevice:
		return "InvalidDevice"
	case ResourceExhausted:
		return "ResourceExhausted"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Error() string {
	return k.String()
}

// Error is a configuration error with context identifiers.
// A context identifier is -1 when absent.
type Error struct {
	Kind    Kind
	Msg     string
	Port    int
	RxQueue int
	TxQueue int
	LCore   int
	Count   int
	Err     error
}

// NewError creates an Error without context identifiers.
func NewError(kind Kind, format string, a ...any) *Error {
	return &Error{
		Kind:    kind,
		Msg:     fmt.Sprintf(format, a...),
		Port:    -1,
		RxQueue: -1,
		TxQueue: -1,
		LCore:   -1,
		Count:   -1,
	}
}

// WithPort sets port context.
func (e *Error) WithPort(port int) *Error {
	e.Port = port
	return e
}

// WithRxQueue sets RX queue context.
func (e *Error) WithRxQueue(queue int) *Error {
	e.RxQueue = queue
	return e
}

// WithTxQueue sets TX queue context.
func (e *Error) WithTxQueue(queue int) *Error {
	e.TxQueue = queue
	return e
}

func (e *Error) withLCore(lcore int) *Error {
	e.LCore = lcore
	return e
}

func (e *Error) withCount(count int) *Error {
	e.Count = count
	return e
}

func (e *Error) wrap(err error) *Error {
	e.Err = err
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Msg)

	var ctx []string
	for _, c := range []struct {
		key string
		v   int
	}{
		{"port", e.Port},
		{"rxq", e.RxQueue},
		{"txq", e.TxQueue},
		{"lcore", e.LCore},
		{"count", e.Count},
	} {
		if c.v >= 0 {
			ctx = append(ctx, fmt.Sprintf("%s=%d", c.key, c.v))
		}
	}
	if len(ctx) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(ctx, " "))
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is matches the error Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}
