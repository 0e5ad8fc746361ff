package ealconfig_test

import (
	"testing"

	"github.com/usnistgov/portplan/dpdk/ealconfig"
	"go.uber.org/multierr"
)

func TestReplaceFlags(t *testing.T) {
	assert, require := makeAR(t)

	var cfg ealconfig.Config
	cfg.LCoreFlags = "--flag-a value-a"
	cfg.Flags = "--flag-b 'value b'"

	args, e := cfg.Args(testHwInfo)
	require.NoError(e)
	assert.Equal([]string{"--flag-b", "value b"}, args)

	_, e = cfg.EnabledLCores(testHwInfo)
	assert.Error(e)

	cfg.Flags = "--flag-b 'unterminated"
	_, e = cfg.Args(testHwInfo)
	if assert.Error(e) {
		assert.Contains(e.Error(), "Flags")
	}
}

func TestExtraFlags(t *testing.T) {
	assert, require := makeAR(t)

	var cfg ealconfig.Config
	cfg.LCoreFlags = "--flag-a value-a"
	cfg.ExtraFlags = "--flag-b value-b"

	args, e := cfg.Args(testHwInfo)
	require.NoError(e)
	assert.Equal([]string{"--flag-a", "value-a", "--flag-b", "value-b"}, args)
}

func TestLCoreCores(t *testing.T) {
	assert, require := makeAR(t)

	var cfg ealconfig.Config
	cfg.Cores = []int{0, 1, 4, 7, 32}

	args, e := cfg.Args(testHwInfo)
	require.NoError(e)
	require.Len(args, 2)
	assert.Equal("-l", args[0])
	commaSetEquals(assert, "0,1,4,7", args[1])

	lcores, e := cfg.EnabledLCores(testHwInfo)
	require.NoError(e)
	assert.Equal([]int{0, 1, 4, 7}, lcores.IDs())
}

func TestLCoreCoresPerNuma(t *testing.T) {
	assert, require := makeAR(t)

	var cfg ealconfig.Config
	cfg.CoresPerNuma = map[int]int{
		0: 2,
		1: -6,
		2: 0,
	}

	args, e := cfg.Args(testHwInfo)
	require.NoError(e)
	require.Len(args, 2)
	commaSetEquals(assert, "0,1,4,5,12,13,14,15,28,29,30,31", args[1])

	lcores, e := cfg.EnabledLCores(testHwInfo)
	require.NoError(e)
	assert.Equal([]int{0, 1, 4, 5, 12, 13, 14, 15, 28, 29, 30, 31}, lcores.IDs())
}

func TestLCoresPerNuma(t *testing.T) {
	assert, require := makeAR(t)

	var cfg ealconfig.Config
	cfg.CoresPerNuma = map[int]int{0: 2}
	cfg.LCoresPerNuma = map[int]int{0: 3, 2: 2}
	lcoreMain := 0
	cfg.LCoreMain = &lcoreMain

	args, e := cfg.Args(testHwInfo)
	require.NoError(e)
	assert.Equal([]string{
		"--lcores", "(0,1,2)@(0,1),(3,4)@(8,9,10,11,24,25,26,27)",
		"--main-lcore", "0",
	}, args)

	lcores, e := cfg.EnabledLCores(testHwInfo)
	require.NoError(e)
	assert.Equal([]int{0, 1, 2, 3, 4}, lcores.IDs())
}

func TestLCoresPerNumaInvalid(t *testing.T) {
	assert, _ := makeAR(t)

	var cfg ealconfig.Config
	cfg.LCoresPerNuma = map[int]int{0: 0, 5: 2}

	_, e := cfg.Args(testHwInfo)
	assert.Len(multierr.Errors(e), 2)
	if assert.Error(e) {
		assert.Contains(e.Error(), "LCoresPerNuma[0]")
	}
	if assert.Error(e) {
		assert.Contains(e.Error(), "NUMA socket 5")
	}
}

func TestLCoreNoCores(t *testing.T) {
	assert, _ := makeAR(t)

	var cfg ealconfig.Config
	cfg.Cores = []int{99}

	_, e := cfg.Args(testHwInfo)
	assert.Error(e)
	_, e = cfg.EnabledLCores(testHwInfo)
	assert.Error(e)
}
