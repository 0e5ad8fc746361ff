// Command portplan plans port and lcore assignment for a multi-port forwarding application.
package main

import (
	"errors"
	"os"
	"sort"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/portplan/app/portplan"
	"github.com/usnistgov/portplan/core/logging"
	"github.com/usnistgov/portplan/core/version"
	"github.com/usnistgov/portplan/core/yamlflag"
	"go.uber.org/zap"
)

var logger = logging.New("main")

// Exit codes.
const (
	exitFailure   = 1
	exitBadConfig = 2
	exitLinkDown  = 3
)

var app = &cli.App{
	Version: version.V.String(),
	Usage:   "Plan port and lcore assignment of a multi-port forwarding application.",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "netif",
			Usage: "kernel network `interface` for each port, in port ID order",
		},
		&cli.IntSliceFlag{
			Name:  "cores",
			Usage: "processor `list` available to lcores (default is all allowed processors)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log `level` of every package: V, D, I, W, E, F, or N",
		},
		&cli.GenericFlag{
			Name:  "eal",
			Usage: "lcore configuration as YAML `document` or @file",
			Value: yamlflag.New(&ealCfg),
		},
	},
	Before: func(c *cli.Context) error {
		if c.IsSet("log-level") {
			logging.SetAllLevels(c.String("log-level"))
		}
		if cores := c.IntSlice("cores"); len(cores) > 0 {
			ealCfg.Cores = cores
		}
		return nil
	},
}

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

// configError indicates a command line configuration that cannot be used.
type configError struct {
	error
}

func (e configError) Unwrap() error {
	return e.error
}

func exitCode(e error) int {
	var pe *portplan.Error
	var ce configError
	switch {
	case errors.As(e, &pe), errors.As(e, &ce), yamlflag.IsSchemaError(e):
		return exitBadConfig
	case errors.Is(e, errLinkDown):
		return exitLinkDown
	}
	return exitFailure
}

func main() {
	defer logging.Sync()
	sort.Sort(cli.CommandsByName(app.Commands))
	if e := app.Run(os.Args); e != nil {
		code := exitCode(e)
		logger.Error("portplan failed", zap.Error(e), zap.Int("exit", code))
		logging.Sync()
		os.Exit(code)
	}
}
