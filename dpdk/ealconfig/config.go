// Package ealconfig prepares EAL parameters.
package ealconfig

import (
	"github.com/usnistgov/portplan/core/hwinfo"
	"github.com/usnistgov/portplan/core/logging"
	"github.com/usnistgov/portplan/dpdk/eal"
)

var logger = logging.New("ealconfig")

// Config contains EAL configuration.
type Config struct {
	LCoreConfig

	// ExtraFlags is additional flags passed to DPDK.
	ExtraFlags string `json:"extraFlags,omitempty"`

	// Flags is all flags passed to DPDK.
	// This replaces all other options.
	Flags string `json:"flags,omitempty"`
}

// Args validates the configuration and constructs EAL arguments.
func (cfg Config) Args(hwInfo hwinfo.Provider) (args []string, e error) {
	if cfg.Flags != "" {
		return shellSplit("Flags", cfg.Flags)
	}
	if hwInfo == nil {
		hwInfo = hwinfo.Default
	}

	if args, e = cfg.LCoreConfig.args(hwInfo); e != nil {
		return nil, e
	}

	if cfg.ExtraFlags != "" {
		a, e := shellSplit("ExtraFlags", cfg.ExtraFlags)
		if e != nil {
			return nil, e
		}
		args = append(args, a...)
	}
	return args, nil
}

// EnabledLCores determines which lcores would be enabled by the EAL arguments.
// This is unavailable when Flags or LCoreFlags replaces the generated lcore arguments.
func (cfg Config) EnabledLCores(hwInfo hwinfo.Provider) (eal.LCores, error) {
	if cfg.Flags != "" {
		return nil, errFlagsOverride
	}
	if hwInfo == nil {
		hwInfo = hwinfo.Default
	}
	return cfg.LCoreConfig.enabled(hwInfo)
}
