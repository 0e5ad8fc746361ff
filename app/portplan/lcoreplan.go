package portplan

import (
	"github.com/pkg/math"
	"github.com/usnistgov/portplan/dpdk/eal"
	"github.com/usnistgov/portplan/dpdk/ethdev"
	"go.uber.org/zap"
)

// LCoreLimits contains capacity limits of the lcore planner.
type LCoreLimits struct {
	// RxPortsPerLCore is the maximum number of ports that one lcore receives from.
	RxPortsPerLCore int `json:"rxPortsPerLCore,omitempty"`

	// TxPortsPerLCore is the maximum number of ports that one lcore transmits to.
	TxPortsPerLCore int `json:"txPortsPerLCore,omitempty"`

	// MaxLCores is the number of lcore IDs that may be used, starting from 0.
	// The default is eal.MaxLCoreID+1.
	MaxLCores int `json:"maxLCores,omitempty"`
}

func (limits LCoreLimits) check() (LCoreLimits, error) {
	if e := checkCount(limits.RxPortsPerLCore, MaxPortsPerLCore, "RX ports per lcore"); e != nil {
		return limits, e
	}
	if e := checkCount(limits.TxPortsPerLCore, MaxPortsPerLCore, "TX ports per lcore"); e != nil {
		return limits, e
	}
	if limits.MaxLCores <= 0 {
		limits.MaxLCores = eal.MaxLCoreID + 1
	}
	limits.MaxLCores = math.MinInt(limits.MaxLCores, eal.MaxLCoreID+1)
	return limits, nil
}

// LCoreAssignment contains ports served by one lcore.
type LCoreAssignment struct {
	LCore   eal.LCore   `json:"lcore"`
	RxPorts []ethdev.ID `json:"rxPorts"`
	TxPorts []ethdev.ID `json:"txPorts"`
}

// Assignment contains per-lcore port assignments, in ascending lcore order.
// Lcores without any port are omitted.
type Assignment []LCoreAssignment

// LCores returns lcores that have at least one port.
func (a Assignment) LCores() (list eal.LCores) {
	for _, la := range a {
		list = append(list, la.LCore)
	}
	return list
}

// Find returns the assignment of an lcore, or nil if the lcore has no port.
func (a Assignment) Find(lc eal.LCore) *LCoreAssignment {
	for i := range a {
		if a[i].LCore == lc {
			return &a[i]
		}
	}
	return nil
}

// LCoreOf returns the lcore that receives from or transmits to a port.
// It returns zero eal.LCore if the port is not assigned.
func (a Assignment) LCoreOf(port ethdev.ID, dir Direction) eal.LCore {
	for _, la := range a {
		list := la.RxPorts
		if dir == DirTx {
			list = la.TxPorts
		}
		for _, p := range list {
			if p == port {
				return la.LCore
			}
		}
	}
	return eal.LCore{}
}

type lcoreSlot struct {
	ports [2][]ethdev.ID
}

// lcoreCursor walks lcore IDs for one direction.
type lcoreCursor struct {
	dir       Direction
	limit     int
	lcID      int
	maxLCores int
	isEnabled eal.LCorePredicate
}

// place finds the lcore for the next port, advancing past full or disabled lcores.
func (c *lcoreCursor) place(slots *[eal.MaxLCoreID + 1]lcoreSlot, port ethdev.ID) (lcID int, e error) {
	for len(slots[c.lcID].ports[c.dir]) >= c.limit || !c.isEnabled(eal.LCoreFromID(c.lcID)) {
		c.lcID++
		if c.lcID >= c.maxLCores {
			return -1, NewError(ResourceExhausted, "no lcore available for %s duty", c.dir.duty()).withLCore(c.lcID).WithPort(int(port))
		}
	}
	slots[c.lcID].ports[c.dir] = append(slots[c.lcID].ports[c.dir], port)
	return c.lcID, nil
}

// PlanLCores assigns enabled ports to worker lcores.
//
// Ports are visited in ascending order.
// RX and TX duties are assigned by independent cursors that start at lcore 0.
// Each cursor skips lcores that are disabled or already hold the per-lcore limit.
// If a cursor goes past limits.MaxLCores, the plan fails with ResourceExhausted.
func PlanLCores(ports []ethdev.ID, fwd ForwardingMap, mask ethdev.Mask, isEnabled eal.LCorePredicate, limits LCoreLimits) (a Assignment, e error) {
	if limits, e = limits.check(); e != nil {
		return nil, e
	}

	var slots [eal.MaxLCoreID + 1]lcoreSlot
	cursors := [2]lcoreCursor{
		DirRx: {dir: DirRx, limit: limits.RxPortsPerLCore, maxLCores: limits.MaxLCores, isEnabled: isEnabled},
		DirTx: {dir: DirTx, limit: limits.TxPortsPerLCore, maxLCores: limits.MaxLCores, isEnabled: isEnabled},
	}

	for _, port := range sortedPorts(ports) {
		if !mask.Has(port) {
			continue
		}
		for dir, duty := range [2]bool{DirRx: fwd.HasRx(port), DirTx: fwd.HasTx(port)} {
			if !duty {
				continue
			}
			lcID, e := cursors[dir].place(&slots, port)
			if e != nil {
				return nil, e
			}
			logger.Debug("port assigned",
				zap.Stringer("port", port),
				zap.Stringer("dir", Direction(dir)),
				zap.Int("lcore", lcID),
			)
		}
	}

	for lcID, slot := range slots {
		if len(slot.ports[DirRx]) == 0 && len(slot.ports[DirTx]) == 0 {
			continue
		}
		a = append(a, LCoreAssignment{
			LCore:   eal.LCoreFromID(lcID),
			RxPorts: append([]ethdev.ID{}, slot.ports[DirRx]...),
			TxPorts: append([]ethdev.ID{}, slot.ports[DirTx]...),
		})
	}
	return a, nil
}
