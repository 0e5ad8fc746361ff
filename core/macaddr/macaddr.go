// Package macaddr handles MAC-48 addresses of Ethernet ports.
package macaddr

import (
	"encoding"
	"net"
)

// Addr is a MAC-48 address that encodes as colon-separated text.
type Addr struct {
	net.HardwareAddr
}

var (
	_ encoding.TextMarshaler   = Addr{}
	_ encoding.TextUnmarshaler = (*Addr)(nil)
)

// Parse parses a MAC-48 address.
func Parse(s string) (a Addr, e error) {
	e = a.UnmarshalText([]byte(s))
	return
}

// IsValid determines whether the address has MAC-48 length.
func (a Addr) IsValid() bool {
	return len(a.HardwareAddr) == 6
}

// IsUnicast determines whether the address is a non-zero unicast MAC-48 address.
func (a Addr) IsUnicast() bool {
	h := a.HardwareAddr
	return a.IsValid() && (h[0]&0x01) == 0 && (h[0]|h[1]|h[2]|h[3]|h[4]|h[5]) != 0
}

// IsMulticast determines whether the address is a multicast MAC-48 address.
func (a Addr) IsMulticast() bool {
	return a.IsValid() && (a.HardwareAddr[0]&0x01) != 0
}

func (a Addr) String() string {
	if !a.IsValid() {
		return "unknown"
	}
	return a.HardwareAddr.String()
}

// MarshalText implements encoding.TextMarshaler.
// Invalid address encodes as empty string.
func (a Addr) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return []byte{}, nil
	}
	return []byte(a.HardwareAddr.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Addr) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		a.HardwareAddr = nil
		return nil
	}
	h, e := net.ParseMAC(string(text))
	if e != nil {
		return e
	}
	if len(h) != 6 {
		return &net.AddrError{Err: "not a MAC-48 address", Addr: string(text)}
	}
	a.HardwareAddr = h
	return nil
}
