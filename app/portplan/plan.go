// Package portplan partitions Ethernet ports among worker lcores.
//
// The planning sequence parses the port mask and port pairs, validates pairs against the device layer,
// builds a forwarding map, assigns ports to lcores, and sizes the packet buffer pool.
// Each stage fails fast with an *Error, and nothing is committed until every stage succeeds.
package portplan

import (
	"sort"

	"github.com/rickb777/plural"
	"github.com/usnistgov/portplan/core/logging"
	"github.com/usnistgov/portplan/dpdk/eal"
	"github.com/usnistgov/portplan/dpdk/ethdev"
	"github.com/usnistgov/portplan/dpdk/pktmbuf"
	"go.uber.org/zap"
)

var logger = logging.New("portplan")

var (
	pluralPorts  = plural.FromZero("no ports", "%d port", "%d ports")
	pluralLCores = plural.FromZero("no lcores", "%d lcore", "%d lcores")
)

// Config contains port planning configuration.
type Config struct {
	// PortMask is a hexadecimal mask of enabled ports.
	PortMask string `json:"portMask"`

	// PortPairs is explicit port pairing, such as "(0,1)(2,3)".
	// If empty, enabled ports are paired in ascending order.
	PortPairs string `json:"portPairs,omitempty"`

	LCoreLimits

	// RxQueues is the number of RX queues per port.
	RxQueues int `json:"rxQueues,omitempty"`
	// TxQueues is the number of TX queues per port.
	TxQueues int `json:"txQueues,omitempty"`

	// RxDesc is the number of RX descriptors per queue.
	RxDesc int `json:"rxDesc,omitempty"`
	// TxDesc is the number of TX descriptors per queue.
	TxDesc int `json:"txDesc,omitempty"`
}

// ApplyDefaults replaces zero values with defaults.
func (cfg *Config) ApplyDefaults() {
	if cfg.RxPortsPerLCore == 0 {
		cfg.RxPortsPerLCore = 1
	}
	if cfg.TxPortsPerLCore == 0 {
		cfg.TxPortsPerLCore = 1
	}
	if cfg.RxQueues == 0 {
		cfg.RxQueues = 1
	}
	if cfg.TxQueues == 0 {
		cfg.TxQueues = 1
	}
	if cfg.RxDesc == 0 {
		cfg.RxDesc = pktmbuf.DefaultRxDesc
	}
	if cfg.TxDesc == 0 {
		cfg.TxDesc = pktmbuf.DefaultTxDesc
	}
}

// Plan is the result of port planning.
type Plan struct {
	Mask       ethdev.Mask        `json:"mask"`
	Pairs      PortPairs          `json:"pairs"`
	FwdMap     ForwardingMap      `json:"fwdMap"`
	Assignment Assignment         `json:"assignment"`
	NPorts     int                `json:"nPorts"`
	NLCores    int                `json:"nLCores"`
	RxQueues   int                `json:"rxQueues"`
	TxQueues   int                `json:"txQueues"`
	Pool       pktmbuf.PoolSizing `json:"pool"`
	Capacity   int                `json:"poolCapacity"`
	Optimum    int                `json:"poolOptimumCapacity"`
}

// Ports returns enabled ports in ascending order.
func (p Plan) Ports() []ethdev.ID {
	return p.Mask.IDs()
}

func (p Plan) String() string {
	return pluralPorts.FormatInt(p.NPorts) + " on " + pluralLCores.FormatInt(len(p.Assignment)) + ", pool " + p.Pool.String()
}

// Plan executes the planning sequence.
// dev provides present ports and validates port IDs.
// isEnabled determines whether a worker lcore is enabled.
func (cfg Config) Plan(dev ethdev.Provider, isEnabled eal.LCorePredicate) (p *Plan, e error) {
	cfg.ApplyDefaults()
	p = &Plan{}

	if p.Mask, e = ParseMask(cfg.PortMask); e != nil {
		return nil, e
	}
	if p.Pairs, e = ParsePairs(cfg.PortPairs); e != nil {
		return nil, e
	}
	if e = checkCount(cfg.RxQueues, MaxQueuesPerPort, "RX queues per port"); e != nil {
		return nil, e
	}
	if e = checkCount(cfg.TxQueues, MaxQueuesPerPort, "TX queues per port"); e != nil {
		return nil, e
	}
	p.RxQueues, p.TxQueues = cfg.RxQueues, cfg.TxQueues

	ports := sortedPorts(dev.Ports())
	if e = CheckMask(p.Mask, len(ports)); e != nil {
		return nil, e
	}
	if p.Mask, e = ValidatePairs(p.Pairs, p.Mask, dev); e != nil {
		return nil, e
	}

	for _, port := range ports {
		if p.Mask.Has(port) {
			p.NPorts++
		}
	}
	if p.NPorts == 0 {
		return nil, NewError(InconsistentConfig, "number of available ports is 0").withCount(len(ports))
	}

	limits, e := cfg.LCoreLimits.check()
	if e != nil {
		return nil, e
	}
	for lcID := 0; lcID < limits.MaxLCores; lcID++ {
		if isEnabled(eal.LCoreFromID(lcID)) {
			p.NLCores++
		}
	}
	if p.NLCores == 0 {
		return nil, NewError(ResourceExhausted, "no worker lcore is enabled")
	}

	p.FwdMap = BuildForwardingMap(p.Pairs, p.Mask, ports)
	if p.Assignment, e = PlanLCores(ports, p.FwdMap, p.Mask, isEnabled, limits); e != nil {
		return nil, e
	}

	p.Pool = pktmbuf.PoolSizing{
		Ports:     p.NPorts,
		RxDesc:    cfg.RxDesc,
		TxDesc:    cfg.TxDesc,
		LCores:    p.NLCores,
		CacheSize: pktmbuf.DefaultCacheSize,
	}
	p.Capacity = p.Pool.Capacity()
	p.Optimum = p.Pool.OptimumCapacity()
	p.Pool.Log()

	logger.Info("port plan ready",
		zap.Stringer("mask", p.Mask),
		zap.Stringer("pairs", p.Pairs),
		zap.String("summary", p.String()),
	)
	return p, nil
}

func sortedPorts(ports []ethdev.ID) []ethdev.ID {
	sorted := append([]ethdev.ID{}, ports...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}
