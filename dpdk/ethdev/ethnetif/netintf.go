package ethnetif

import (
	"fmt"
	"net"

	"github.com/safchain/ethtool"
	"github.com/usnistgov/portplan/container/lrutable"
	"github.com/usnistgov/portplan/core/macaddr"
	"github.com/usnistgov/portplan/dpdk/ethdev"
	"github.com/vishvananda/netlink"
	"go.uber.org/zap"
)

// etht is an ethtool instance.
// This is assigned when NetIntfByName() is invoked for the first time.
var etht *ethtool.Ethtool

// NetIntf queries a network interface via netlink and ethtool.
type NetIntf struct {
	*netlink.LinkAttrs
	Link   netlink.Link
	logger *zap.Logger
}

func (n *NetIntf) save(link netlink.Link) {
	n.Link = link
	n.LinkAttrs = link.Attrs()
	n.logger = logger.With(
		zap.Int("ifindex", n.Index),
		zap.String("ifname", n.Name),
	)
}

// Refresh refreshes netlink information stored in this struct.
func (n *NetIntf) Refresh() error {
	link, e := netlink.LinkByIndex(n.Index)
	if e != nil {
		n.logger.Warn("refresh error", zap.Error(e))
		return fmt.Errorf("netlink.LinkByIndex(%d): %w", n.Index, e)
	}
	n.save(link)
	return nil
}

// IsUp determines whether the interface is operationally up.
// Interfaces without carrier reporting, such as loopback, are considered up when administratively up.
func (n NetIntf) IsUp() bool {
	switch n.OperState {
	case netlink.OperUp:
		return true
	case netlink.OperUnknown:
		return n.Flags&net.FlagUp != 0
	}
	return false
}

// MACAddr returns the hardware address of the interface.
func (n NetIntf) MACAddr() macaddr.Addr {
	return macaddr.Addr{HardwareAddr: n.HardwareAddr}
}

// LinkStatus refreshes the interface and describes its link status.
func (n *NetIntf) LinkStatus() (link ethdev.Link, e error) {
	if e = n.Refresh(); e != nil {
		return link, e
	}
	link.Up = n.IsUp()
	if !link.Up {
		return link, nil
	}

	link.SpeedMbps = ethdev.SpeedUnknown
	var cmd ethtool.EthtoolCmd
	speed, e := etht.CmdGet(&cmd, n.Name)
	if e != nil {
		n.logger.Debug("ethtool.CmdGet error", zap.Error(e))
		return link, nil
	}
	link.SpeedMbps = speed
	link.FullDuplex = cmd.Duplex == duplexFull
	link.Autoneg = cmd.Autoneg == autonegEnable
	return link, nil
}

const (
	duplexFull    = 0x01
	autonegEnable = 0x01
)

// netifCache contains recently resolved network interfaces.
var netifCache = func() *lrutable.Table[string, *NetIntf] {
	tbl, e := lrutable.New[string, *NetIntf](lrutable.Config{
		Name:       "netif",
		MaxEntries: 2 * ethdev.MaxEthPorts,
	})
	if e != nil {
		logger.Panic("lrutable.New", zap.Error(e))
	}
	return tbl
}()

// NetIntfByName creates NetIntf by network interface name.
// If the network interface does not exist, returns an error.
// A recently resolved interface is reused if it still has the same name.
func NetIntfByName(ifname string) (n *NetIntf, e error) {
	if etht == nil {
		if etht, e = ethtool.NewEthtool(); e != nil {
			return nil, fmt.Errorf("ethtool.NewEthtool: %w", e)
		}
	}

	if n, ok := netifCache.Get(ifname); ok {
		if e := n.Refresh(); e == nil && n.Name == ifname {
			return n, nil
		}
		netifCache.Delete(ifname)
	}

	link, e := netlink.LinkByName(ifname)
	if e != nil {
		return nil, fmt.Errorf("netlink.LinkByName(%s): %w", ifname, e)
	}

	n = &NetIntf{}
	n.save(link)
	netifCache.Put(ifname, n)
	return n, nil
}
