// Package ethdev describes Ethernet ports of the poll-mode I/O library.
//
// Device setup belongs to the external runtime.
// This package models port identifiers, port masks, and link status as reported by a Provider.
package ethdev

import (
	"strconv"
)

// MaxEthPorts is the maximum number of Ethernet ports, equal to RTE_MAX_ETHPORTS.
const MaxEthPorts = 32

// ID identifies an Ethernet port.
type ID uint16

// Valid determines whether the port ID is within range.
// This does not imply the port is present.
func (id ID) Valid() bool {
	return id < MaxEthPorts
}

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// Provider is the device layer capability consumed by port planning.
type Provider interface {
	// Ports returns present port IDs in ascending order.
	Ports() []ID

	// IsValid determines whether the device layer recognizes a port ID.
	IsValid(id ID) bool

	// LinkGet queries link status of a port without waiting.
	LinkGet(id ID) (Link, error)
}
