package main

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/urfave/cli/v2"
	"github.com/usnistgov/portplan/core/hwinfo"
)

func init() {
	defineCommand(&cli.Command{
		Name:  "eal-args",
		Usage: "Print EAL lcore arguments for the runtime bootstrap.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "extra",
				Usage: "additional EAL `flags`",
			},
			&cli.BoolFlag{
				Name:  "lcores",
				Usage: "print enabled lcore list instead of arguments",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("lcores") {
				lcores, e := enabledLCores()
				if e != nil {
					return e
				}
				fmt.Println(lcores)
				return nil
			}

			cfg := ealCfg
			if c.IsSet("extra") {
				cfg.ExtraFlags = c.String("extra")
			}
			args, e := cfg.Args(hwinfo.Default)
			if e != nil {
				return e
			}
			fmt.Println(shellquote.Join(args...))
			return nil
		},
	})
}
