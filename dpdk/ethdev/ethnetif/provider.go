// Package ethnetif provides port information from kernel network interfaces.
package ethnetif

import (
	"fmt"

	"github.com/usnistgov/portplan/core/logging"
	"github.com/usnistgov/portplan/dpdk/ethdev"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var logger = logging.New("ethnetif")

// Provider implements ethdev.Provider with kernel network interfaces.
// Port IDs are assigned in the order of network interface names.
type Provider struct {
	netifs []*NetIntf
}

var _ ethdev.Provider = (*Provider)(nil)

// New creates Provider from network interface names.
// All names are resolved; errors are combined.
func New(ifnames ...string) (p *Provider, e error) {
	if len(ifnames) > ethdev.MaxEthPorts {
		return nil, fmt.Errorf("too many network interfaces, maximum is %d", ethdev.MaxEthPorts)
	}

	p = &Provider{}
	seen := map[string]bool{}
	for _, ifname := range ifnames {
		if seen[ifname] {
			e = multierr.Append(e, fmt.Errorf("duplicate network interface %s", ifname))
			continue
		}
		seen[ifname] = true

		n, err := NetIntfByName(ifname)
		if err != nil {
			e = multierr.Append(e, err)
			continue
		}
		p.netifs = append(p.netifs, n)
	}
	if e != nil {
		return nil, e
	}

	logger.Debug("netif cache",
		zap.Int("entries", netifCache.Len()),
		zap.Uint64("evictions", netifCache.CountEvictions()),
	)
	for i, n := range p.netifs {
		mac := n.MACAddr()
		logger.Debug("port assigned",
			zap.Int("port", i),
			zap.String("ifname", n.Name),
			zap.Stringer("mac", mac),
		)
		if !mac.IsUnicast() {
			logger.Warn("port has no unicast MAC address", zap.Int("port", i), zap.String("ifname", n.Name))
		}
	}
	return p, nil
}

// NetIntf returns the network interface of a port, or nil if the port does not exist.
func (p *Provider) NetIntf(id ethdev.ID) *NetIntf {
	if int(id) >= len(p.netifs) {
		return nil
	}
	return p.netifs[id]
}

// Ports implements ethdev.Provider interface.
func (p *Provider) Ports() (list []ethdev.ID) {
	for i := range p.netifs {
		list = append(list, ethdev.ID(i))
	}
	return list
}

// IsValid implements ethdev.Provider interface.
func (p *Provider) IsValid(id ethdev.ID) bool {
	return p.NetIntf(id) != nil
}

// LinkGet implements ethdev.Provider interface.
func (p *Provider) LinkGet(id ethdev.ID) (ethdev.Link, error) {
	n := p.NetIntf(id)
	if n == nil {
		return ethdev.Link{}, fmt.Errorf("port %d does not exist", id)
	}
	return n.LinkStatus()
}
