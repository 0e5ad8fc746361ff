package linkwait

import (
	"strconv"
)

// State is the state of link convergence polling.
type State int

// State values.
const (
	// Polling means ports are being polled silently.
	Polling State = iota
	// Converged means every port reported link up.
	Converged
	// FinalReport means every port is polled once more to report its status.
	FinalReport
	// Aborted means the context was canceled.
	Aborted
)

func (st State) String() string {
	switch st {
	case Polling:
		return "Polling"
	case Converged:
		return "Converged"
	case FinalReport:
		return "FinalReport"
	case Aborted:
		return "Aborted"
	}
	return strconv.Itoa(int(st))
}

// MarshalText implements encoding.TextMarshaler.
func (st State) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}
