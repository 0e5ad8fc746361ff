package pktmbuf_test

import (
	"testing"

	"github.com/usnistgov/portplan/core/testenv"
	"github.com/usnistgov/portplan/dpdk/pktmbuf"
)

func TestCapacity(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	assert.Equal(pktmbuf.MinPoolCapacity, pktmbuf.PoolSizing{}.Capacity())
	assert.Equal(pktmbuf.MinPoolCapacity, pktmbuf.DefaultPoolSizing(0, 0).Capacity())
	assert.Equal(pktmbuf.MinPoolCapacity, pktmbuf.DefaultPoolSizing(2, 4).Capacity())
	assert.Equal(12288, pktmbuf.DefaultPoolSizing(6, 0).Capacity())
	assert.Equal(4*(2048+4*256), pktmbuf.DefaultPoolSizing(4, 4).Capacity())
	assert.Equal(8*(2048+16*256), pktmbuf.DefaultPoolSizing(8, 16).Capacity())

	assert.Equal(pktmbuf.MinPoolCapacity, pktmbuf.PoolSizing{Ports: -3, RxDesc: 1024, TxDesc: 1024, LCores: -1, CacheSize: 256}.Capacity())

	// capacity grows with ports and lcores
	prev := 0
	for n := 1; n <= 32; n++ {
		c := pktmbuf.DefaultPoolSizing(n, n).Capacity()
		assert.GreaterOrEqual(c, prev)
		assert.GreaterOrEqual(c, pktmbuf.MinPoolCapacity)
		prev = c
	}
}

func TestLiteralCapacity(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	// (1024+1024+4)&256 == 0
	assert.Equal(pktmbuf.MinPoolCapacity, pktmbuf.DefaultPoolSizing(32, 4).LiteralCapacity())
	// (1024+1024+256)&256 == 256
	assert.Equal(pktmbuf.MinPoolCapacity, pktmbuf.DefaultPoolSizing(32, 256).LiteralCapacity())
	assert.Equal(64*256, pktmbuf.PoolSizing{Ports: 64, RxDesc: 1024, TxDesc: 1024, LCores: 256, CacheSize: 256}.LiteralCapacity())
}

func TestMemoryEstimate(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	s := pktmbuf.DefaultPoolSizing(1, 1)
	assert.Equal(uint64(8192*(2176+192)), s.MemoryEstimate(pktmbuf.DefaultDataroom))
	assert.Contains(s.String(), "8192 buffers")
}

func TestOptimumCapacity(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	assert.Equal(8191, pktmbuf.DefaultPoolSizing(1, 1).OptimumCapacity())
	assert.Equal(12288, pktmbuf.DefaultPoolSizing(6, 0).OptimumCapacity())
	assert.Equal(16383, pktmbuf.DefaultPoolSizing(8, 0).OptimumCapacity())
}
