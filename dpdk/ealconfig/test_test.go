package ealconfig_test

import (
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/usnistgov/portplan/core/hwinfo"
	"github.com/usnistgov/portplan/core/testenv"
)

var makeAR = testenv.MakeAR

// testHwInfo has 32 logical cores on 4 NUMA sockets.
// Logical cores N and N+16 are hyperthreads of the same physical core.
var testHwInfo = func() (cores hwinfo.Cores) {
	for lc := 0; lc < 32; lc++ {
		cores = append(cores, hwinfo.CoreInfo{
			NumaSocket:   (lc % 16) / 4,
			PhysicalCore: lc % 16,
			LogicalCore:  lc,
		})
	}
	return cores
}()

func commaSetEquals(a *assert.Assertions, expected string, actual string, msgAndArgs ...any) bool {
	expectedSet := strings.Split(expected, ",")
	actualSet := strings.Split(actual, ",")
	return a.Subset(expectedSet, actualSet, msgAndArgs...) && a.Subset(actualSet, expectedSet, msgAndArgs...)
}
