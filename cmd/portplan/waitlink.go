package main

import (
	"errors"
	"fmt"
	"os/signal"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/urfave/cli/v2"
	"github.com/usnistgov/portplan/app/linkwait"
	"github.com/usnistgov/portplan/app/portplan"
	"github.com/usnistgov/portplan/core/nnduration"
	"github.com/usnistgov/portplan/dpdk/ethdev"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var errLinkDown = errors.New("some ports are down")

func init() {
	defineCommand(&cli.Command{
		Name:  "wait-link",
		Usage: "Wait for enabled ports to report link up.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "portmask",
				Aliases: []string{"p"},
				Usage:   "hexadecimal `mask` of enabled ports (default is all ports)",
			},
			&cli.IntFlag{
				Name:  "max-cycles",
				Value: linkwait.DefaultMaxCycles,
				Usage: "maximum `number` of polling cycles",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Value: linkwait.DefaultInterval.Duration(),
				Usage: "`duration` between polling cycles, at least 1ms",
			},
			&cli.BoolFlag{
				Name:  "notify",
				Usage: "notify systemd when every port is up",
			},
		},
		Action: func(c *cli.Context) (e error) {
			interval := c.Duration("interval")
			if interval < time.Millisecond {
				return configError{errors.New("--interval must be at least 1ms")}
			}
			cfg := linkwait.Config{
				MaxCycles: c.Int("max-cycles"),
				Interval:  nnduration.Milliseconds(interval / time.Millisecond),
			}
			if cfg.MaxCycles < 1 {
				return configError{errors.New("--max-cycles must be positive")}
			}

			var mask ethdev.Mask
			if c.IsSet("portmask") {
				if mask, e = portplan.ParseMask(c.String("portmask")); e != nil {
					return e
				}
			}

			dev, e := openProvider(c)
			if e != nil {
				return e
			}
			ports := dev.Ports()
			if c.IsSet("portmask") {
				if e = portplan.CheckMask(mask, len(ports)); e != nil {
					return e
				}
			} else {
				mask = ethdev.MaskBelow(len(ports))
			}

			ctx, stop := signal.NotifyContext(c.Context, unix.SIGINT, unix.SIGTERM)
			defer stop()

			p := linkwait.New(cfg, dev, mask.IDs())
			p.OnSnapshot(func(snap linkwait.Snapshot) {
				logger.Debug("link poll",
					zap.Int("cycle", snap.Cycle),
					zap.Int("down", snap.Down),
				)
			})
			p.OnPortStatus(func(ps linkwait.PortStatus) {
				fmt.Println(ps)
			})

			res, e := p.Run(ctx)
			if e != nil {
				return e
			}
			if !res.Converged {
				return errLinkDown
			}
			if c.Bool("notify") {
				if _, e := daemon.SdNotify(false, daemon.SdNotifyReady); e != nil {
					logger.Warn("systemd notify error", zap.Error(e))
				}
			}
			return nil
		},
	})
}
