package portplan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/usnistgov/portplan/dpdk/ethdev"
)

// Limits of parsed values.
const (
	// MaxPairs is the maximum number of port pairs.
	MaxPairs = ethdev.MaxEthPorts / 2
	// MaxQueuesPerPort is the maximum number of RX or TX queues per port.
	MaxQueuesPerPort = 16
	// MaxPortsPerLCore is the maximum number of ports served by one lcore in each direction.
	MaxPortsPerLCore = 16

	// pairScratchSize is the hard limit of text length within one pair of parentheses.
	pairScratchSize = 256
)

// leadingSpace is skipped before a port ID, like isspace in C.
const leadingSpace = " \t\n\v\f\r"

// Direction indicates receive or transmit.
type Direction int

// Direction values.
const (
	DirRx Direction = iota
	DirTx
)

func (dir Direction) String() string {
	switch dir {
	case DirRx:
		return "RX"
	case DirTx:
		return "TX"
	}
	return strconv.Itoa(int(dir))
}

func (dir Direction) duty() string {
	if dir == DirTx {
		return "transmit"
	}
	return "receive"
}

// PortPair is a forwarding partnership between two ports.
type PortPair struct {
	A ethdev.ID `json:"a"`
	B ethdev.ID `json:"b"`
}

func (p PortPair) String() string {
	return fmt.Sprintf("(%d,%d)", p.A, p.B)
}

// PortPairs is an ordered list of port pairs.
type PortPairs []PortPair

func (pp PortPairs) String() string {
	var b strings.Builder
	for _, p := range pp {
		b.WriteString(p.String())
	}
	return b.String()
}

// ParseMask parses a hexadecimal port mask, such as "0x3" or "ff".
func ParseMask(text string) (ethdev.Mask, error) {
	s := text
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, NewError(MalformedInput, "invalid port mask %q", text)
	}
	v, e := strconv.ParseUint(s, 16, ethdev.MaskBits)
	if e != nil {
		return 0, NewError(MalformedInput, "invalid port mask %q", text).wrap(e)
	}
	return ethdev.Mask(v), nil
}

// ParsePairs parses port pair configuration, such as "(0,1)(2,3)".
// Text outside parentheses is ignored.
// An input without any parenthesized group yields an empty list.
func ParsePairs(text string) (pairs PortPairs, e error) {
	pairs = PortPairs{}
	rest := text
	for {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			break
		}
		rest = rest[open+1:]

		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return nil, NewError(MalformedInput, "unterminated port pair %q", "("+rest)
		}
		group := rest[:end]
		rest = rest[end+1:]

		if len(group) >= pairScratchSize {
			return nil, NewError(MalformedInput, "port pair text exceeds %d bytes", pairScratchSize-1).withCount(len(group))
		}

		fieldA, fieldB, found := strings.Cut(group, ",")
		if !found {
			return nil, NewError(MalformedInput, "port pair (%s) must have two ports", group)
		}
		var pair PortPair
		if pair.A, e = parsePortID(fieldA); e != nil {
			return nil, e
		}
		if pair.B, e = parsePortID(fieldB); e != nil {
			return nil, e
		}

		if len(pairs) >= MaxPairs {
			return nil, NewError(CapacityExceeded, "too many port pairs, maximum is %d", MaxPairs).withCount(len(pairs) + 1)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// parsePortID parses a port ID with C-style base prefix: 0x for hexadecimal, 0 for octal.
// Leading whitespace is skipped; anything after the digits is rejected.
func parsePortID(field string) (ethdev.ID, error) {
	s := strings.TrimLeft(field, leadingSpace)
	if lower := strings.ToLower(s); s == "" || strings.ContainsRune(s, '_') ||
		strings.HasPrefix(lower, "0b") || strings.HasPrefix(lower, "0o") {
		return 0, NewError(MalformedInput, "invalid port ID %q", field)
	}
	v, e := strconv.ParseUint(s, 0, 16)
	if e != nil {
		return 0, NewError(MalformedInput, "invalid port ID %q", field).wrap(e)
	}
	if id := ethdev.ID(v); !id.Valid() {
		return 0, NewError(MalformedInput, "port ID must be less than %d", ethdev.MaxEthPorts).WithPort(int(v))
	}
	return ethdev.ID(v), nil
}

// ParseQueues parses the number of RX or TX queues per port.
func ParseQueues(text string, dir Direction) (int, error) {
	return parseCount(text, MaxQueuesPerPort, dir.String()+" queues per port")
}

// ParsePortsPerLCore parses the maximum number of ports served by one lcore.
func ParsePortsPerLCore(text string) (int, error) {
	return parseCount(text, MaxPortsPerLCore, "ports per lcore")
}

func parseCount(text string, max int, what string) (int, error) {
	n, e := strconv.Atoi(strings.TrimLeft(text, leadingSpace))
	if e != nil {
		return 0, NewError(MalformedInput, "invalid %s %q", what, text).wrap(e)
	}
	return n, checkCount(n, max, what)
}

func checkCount(n, max int, what string) error {
	switch {
	case n < 1:
		return NewError(MalformedInput, "%s must be at least 1", what).withCount(n)
	case n > max:
		return NewError(CapacityExceeded, "%s must not exceed %d", what, max).withCount(n)
	}
	return nil
}
