package ethdev

import (
	"math"
	"strconv"
)

// Link speeds with special meanings.
const (
	SpeedNone    uint32 = 0
	SpeedUnknown uint32 = math.MaxUint32
)

// Link describes link status of an Ethernet port.
type Link struct {
	Up         bool   `json:"up"`
	SpeedMbps  uint32 `json:"speed"`
	FullDuplex bool   `json:"fullDuplex"`
	Autoneg    bool   `json:"autoneg"`
}

// SpeedString formats link speed, such as "10 Gbps".
func (link Link) SpeedString() string {
	switch s := link.SpeedMbps; {
	case s == SpeedNone:
		return "None"
	case s == SpeedUnknown:
		return "Unknown"
	case s >= 1000 && s%1000 == 0:
		return strconv.FormatUint(uint64(s/1000), 10) + " Gbps"
	case s > 1000 && s%100 == 0:
		return strconv.FormatFloat(float64(s)/1000, 'f', 1, 64) + " Gbps"
	default:
		return strconv.FormatUint(uint64(s), 10) + " Mbps"
	}
}

// String formats link status, such as "Link up at 10 Gbps FDX Autoneg".
func (link Link) String() string {
	if !link.Up {
		return "Link down"
	}
	duplex, autoneg := "HDX", "Fixed"
	if link.FullDuplex {
		duplex = "FDX"
	}
	if link.Autoneg {
		autoneg = "Autoneg"
	}
	return "Link up at " + link.SpeedString() + " " + duplex + " " + autoneg
}
