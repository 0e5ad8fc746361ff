// Package eal describes lcores of the Environment Abstraction Layer.
//
// The EAL itself is initialized by the external runtime bootstrap.
// This package only models which lcores exist and which are enabled as workers.
package eal

import (
	"github.com/usnistgov/portplan/core/logging"
)

var logger = logging.New("eal")

// MaxLCoreID is the maximum lcore ID, equal to RTE_MAX_LCORE-1 in the default DPDK build.
const MaxLCoreID = 127
