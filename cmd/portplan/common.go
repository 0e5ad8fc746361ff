package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/portplan/core/hwinfo"
	"github.com/usnistgov/portplan/core/macaddr"
	"github.com/usnistgov/portplan/dpdk/eal"
	"github.com/usnistgov/portplan/dpdk/ealconfig"
	"github.com/usnistgov/portplan/dpdk/ethdev"
	"github.com/usnistgov/portplan/dpdk/ethdev/ethnetif"
	"go.uber.org/zap"
)

var ealCfg ealconfig.Config

func openProvider(c *cli.Context) (*ethnetif.Provider, error) {
	netifs := c.StringSlice("netif")
	if len(netifs) == 0 {
		return nil, errors.New("--netif is required")
	}
	return ethnetif.New(netifs...)
}

func enabledLCores() (eal.LCores, error) {
	lcores, e := ealCfg.EnabledLCores(hwinfo.Default)
	if e != nil {
		return nil, fmt.Errorf("enabled lcores: %w", e)
	}
	logger.Debug("enabled lcores", zap.Stringer("lcores", lcores))
	return lcores, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type portInfo struct {
	Port   ethdev.ID    `json:"port"`
	IfName string       `json:"ifname"`
	MAC    macaddr.Addr `json:"mac"`
}

func listPorts(dev *ethnetif.Provider, ports []ethdev.ID) (list []portInfo) {
	list = []portInfo{}
	for _, port := range ports {
		n := dev.NetIntf(port)
		list = append(list, portInfo{
			Port:   port,
			IfName: n.Name,
			MAC:    n.MACAddr(),
		})
	}
	return list
}
