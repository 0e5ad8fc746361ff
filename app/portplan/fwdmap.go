package portplan

import (
	"encoding/json"
	"sort"

	"github.com/usnistgov/portplan/dpdk/ethdev"
	"go.uber.org/zap"
)

// Duty indicates whether a port receives, transmits, or both.
type Duty uint8

// Duty bits.
const (
	DutyRx Duty = 1 << iota
	DutyTx
	DutyBoth = DutyRx | DutyTx
)

func (d Duty) String() string {
	switch d {
	case DutyRx:
		return "RX"
	case DutyTx:
		return "TX"
	case DutyBoth:
		return "RX+TX"
	}
	return "none"
}

type fwdEntry struct {
	partner ethdev.ID
	duty    Duty
}

// ForwardingMap maps each active port to its partner port.
// The zero value maps no port.
// A ForwardingMap is immutable after BuildForwardingMap returns.
type ForwardingMap struct {
	entries [ethdev.MaxEthPorts]fwdEntry
}

// Partner returns the partner of a port.
// ok is false if the port is not mapped.
func (m ForwardingMap) Partner(id ethdev.ID) (partner ethdev.ID, ok bool) {
	if !id.Valid() || m.entries[id].duty == 0 {
		return 0, false
	}
	return m.entries[id].partner, true
}

// Duty returns the duty of a port.
func (m ForwardingMap) Duty(id ethdev.ID) Duty {
	if !id.Valid() {
		return 0
	}
	return m.entries[id].duty
}

// HasRx determines whether a port has receive duty.
func (m ForwardingMap) HasRx(id ethdev.ID) bool {
	return m.Duty(id)&DutyRx != 0
}

// HasTx determines whether a port has transmit duty.
func (m ForwardingMap) HasTx(id ethdev.ID) bool {
	return m.Duty(id)&DutyTx != 0
}

// Ports returns mapped ports in ascending order.
func (m ForwardingMap) Ports() (list []ethdev.ID) {
	for i, entry := range m.entries {
		if entry.duty != 0 {
			list = append(list, ethdev.ID(i))
		}
	}
	return list
}

// SelfLoop returns the port that forwards to itself, if any.
func (m ForwardingMap) SelfLoop() (id ethdev.ID, ok bool) {
	for _, port := range m.Ports() {
		if m.entries[port].partner == port {
			return port, true
		}
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler interface.
func (m ForwardingMap) MarshalJSON() ([]byte, error) {
	type entry struct {
		Port    ethdev.ID `json:"port"`
		Partner ethdev.ID `json:"partner"`
		Duty    string    `json:"duty"`
	}
	list := []entry{}
	for _, port := range m.Ports() {
		list = append(list, entry{port, m.entries[port].partner, m.entries[port].duty.String()})
	}
	return json.Marshal(list)
}

func (m *ForwardingMap) link(a, b ethdev.ID) {
	m.entries[a] = fwdEntry{partner: b, duty: DutyBoth}
	m.entries[b] = fwdEntry{partner: a, duty: DutyBoth}
}

// BuildForwardingMap builds the forwarding map.
//
// If pairs is non-empty, it should have passed ValidatePairs, and each pair forwards bidirectionally.
// Otherwise, enabled ports among the present ports are paired in ascending order.
// If there is an odd number of enabled ports, the last one forwards to itself.
func BuildForwardingMap(pairs PortPairs, mask ethdev.Mask, ports []ethdev.ID) (m ForwardingMap) {
	if len(pairs) > 0 {
		for _, pair := range pairs {
			if pair.A.Valid() && pair.B.Valid() {
				m.link(pair.A, pair.B)
			}
		}
		return m
	}

	var enabled []ethdev.ID
	for _, port := range ports {
		if mask.Has(port) {
			enabled = append(enabled, port)
		}
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i] < enabled[j] })

	for i := 0; i+1 < len(enabled); i += 2 {
		m.link(enabled[i], enabled[i+1])
	}
	if len(enabled)%2 == 1 {
		last := enabled[len(enabled)-1]
		m.link(last, last)
		logger.Warn("odd number of enabled ports, last port forwards to itself",
			zap.Stringer("mask", mask),
			zap.Stringer("port", last),
		)
	}
	return m
}
