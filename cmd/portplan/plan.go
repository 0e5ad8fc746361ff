package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/portplan/app/portplan"
	"github.com/usnistgov/portplan/core/yamlflag"
	"github.com/usnistgov/portplan/dpdk/eal"
)

func init() {
	defineCommand(&cli.Command{
		Name:  "plan",
		Usage: "Validate port configuration and assign ports to lcores.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "port plan configuration as YAML `document` or @file, overridden by other flags",
			},
			&cli.StringFlag{
				Name:    "portmask",
				Aliases: []string{"p"},
				Usage:   "hexadecimal `mask` of enabled ports",
			},
			&cli.StringFlag{
				Name:  "port-pair-config",
				Usage: "explicit port `pairs`, such as (0,1)(2,3)",
			},
			&cli.StringFlag{
				Name:  "rx-ports-per-lcore",
				Usage: "maximum `number` of ports each lcore receives from",
			},
			&cli.StringFlag{
				Name:  "tx-ports-per-lcore",
				Usage: "maximum `number` of ports each lcore transmits to",
			},
			&cli.StringFlag{
				Name:  "rxq",
				Usage: "`number` of RX queues per port",
			},
			&cli.StringFlag{
				Name:  "txq",
				Usage: "`number` of TX queues per port",
			},
			&cli.IntFlag{
				Name:  "rxd",
				Usage: "`number` of RX descriptors per queue",
			},
			&cli.IntFlag{
				Name:  "txd",
				Usage: "`number` of TX descriptors per queue",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, e := loadPlanConfig(c)
			if e != nil {
				return e
			}

			dev, e := openProvider(c)
			if e != nil {
				return e
			}
			lcores, e := enabledLCores()
			if e != nil {
				return e
			}

			p, e := cfg.Plan(dev, eal.LCoreIsEnabled(lcores))
			if e != nil {
				return e
			}
			return printJSON(struct {
				*portplan.Plan
				PortInfo []portInfo `json:"portInfo"`
			}{p, listPorts(dev, p.Ports())})
		},
	})
}

// loadPlanConfig decodes --config, applies flag overrides, then validates the result against the schema.
func loadPlanConfig(c *cli.Context) (cfg portplan.Config, e error) {
	if c.IsSet("config") {
		if e = yamlflag.Load(c.String("config"), &cfg, nil); e != nil {
			return cfg, configError{fmt.Errorf("--config: %w", e)}
		}
	}
	if e = applyPlanFlags(c, &cfg); e != nil {
		return cfg, e
	}
	return cfg, cfg.Validate()
}

func applyPlanFlags(c *cli.Context, cfg *portplan.Config) (e error) {
	if c.IsSet("portmask") {
		cfg.PortMask = c.String("portmask")
	}
	if c.IsSet("port-pair-config") {
		cfg.PortPairs = c.String("port-pair-config")
	}
	if c.IsSet("rx-ports-per-lcore") {
		if cfg.RxPortsPerLCore, e = portplan.ParsePortsPerLCore(c.String("rx-ports-per-lcore")); e != nil {
			return e
		}
	}
	if c.IsSet("tx-ports-per-lcore") {
		if cfg.TxPortsPerLCore, e = portplan.ParsePortsPerLCore(c.String("tx-ports-per-lcore")); e != nil {
			return e
		}
	}
	if c.IsSet("rxq") {
		if cfg.RxQueues, e = portplan.ParseQueues(c.String("rxq"), portplan.DirRx); e != nil {
			return e
		}
	}
	if c.IsSet("txq") {
		if cfg.TxQueues, e = portplan.ParseQueues(c.String("txq"), portplan.DirTx); e != nil {
			return e
		}
	}
	if c.IsSet("rxd") {
		cfg.RxDesc = c.Int("rxd")
	}
	if c.IsSet("txd") {
		cfg.TxDesc = c.Int("txd")
	}
	if cfg.PortMask == "" {
		return portplan.NewError(portplan.MalformedInput, "port mask is required")
	}
	return nil
}
