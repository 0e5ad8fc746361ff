// Package pktmbuf sizes the packet buffer pool.
//
// Pool allocation belongs to the external runtime.
// This package only computes how many buffers the pool should hold.
package pktmbuf

import (
	"fmt"
	"math/bits"

	"github.com/dustin/go-humanize"
	"github.com/pkg/math"
	"github.com/usnistgov/portplan/core/logging"
	"go.uber.org/zap"
)

var logger = logging.New("pktmbuf")

// Defaults and limits.
const (
	// DefaultRxDesc is the default number of RX descriptors per queue.
	DefaultRxDesc = 1024
	// DefaultTxDesc is the default number of TX descriptors per queue.
	DefaultTxDesc = 1024
	// DefaultCacheSize is the default per-lcore mempool cache size.
	DefaultCacheSize = 256
	// MinPoolCapacity is the minimum pool capacity.
	MinPoolCapacity = 8192

	// DefaultDataroom is the default dataroom of each buffer, equal to RTE_MBUF_DEFAULT_BUF_SIZE.
	DefaultDataroom = 2048 + 128
	// bufOverhead is the approximate size of buffer header and mempool object header.
	bufOverhead = 128 + 64
)

// PoolSizing contains inputs of pool capacity calculation.
type PoolSizing struct {
	Ports     int `json:"ports"`
	RxDesc    int `json:"rxDesc"`
	TxDesc    int `json:"txDesc"`
	LCores    int `json:"lcores"`
	CacheSize int `json:"cacheSize"`
}

// DefaultPoolSizing returns PoolSizing with default descriptor counts and cache size.
func DefaultPoolSizing(ports, lcores int) PoolSizing {
	return PoolSizing{
		Ports:     ports,
		RxDesc:    DefaultRxDesc,
		TxDesc:    DefaultTxDesc,
		LCores:    lcores,
		CacheSize: DefaultCacheSize,
	}
}

func (s PoolSizing) nonNegative() PoolSizing {
	s.Ports = math.MaxInt(s.Ports, 0)
	s.RxDesc = math.MaxInt(s.RxDesc, 0)
	s.TxDesc = math.MaxInt(s.TxDesc, 0)
	s.LCores = math.MaxInt(s.LCores, 0)
	s.CacheSize = math.MaxInt(s.CacheSize, 0)
	return s
}

// Capacity computes the minimum number of packet buffers.
// Each port needs enough buffers to fill its RX and TX rings, plus a cache on every lcore.
// The result is never less than MinPoolCapacity.
func (s PoolSizing) Capacity() int {
	s = s.nonNegative()
	return math.MaxInt(s.Ports*(s.RxDesc+s.TxDesc+s.LCores*s.CacheSize), MinPoolCapacity)
}

// LiteralCapacity computes pool capacity with the bitwise AND combination found in some sample applications:
//  ports * ((rxDesc + txDesc + lcores) & cacheSize)
// It exists for diagnostics only and must not be used for allocation.
func (s PoolSizing) LiteralCapacity() int {
	s = s.nonNegative()
	return math.MaxInt(s.Ports*((s.RxDesc+s.TxDesc+s.LCores)&s.CacheSize), MinPoolCapacity)
}

// MemoryEstimate approximates memory usage of a pool with Capacity() buffers.
func (s PoolSizing) MemoryEstimate(dataroom int) uint64 {
	return uint64(s.Capacity()) * uint64(math.MaxInt(dataroom, 0)+bufOverhead)
}

func (s PoolSizing) String() string {
	return fmt.Sprintf("%d buffers (~%s)", s.Capacity(), humanize.IBytes(s.MemoryEstimate(DefaultDataroom)))
}

// Log writes pool sizing to the log.
// A warning is logged when the literal formula would have produced a different capacity.
func (s PoolSizing) Log() {
	capacity, literal := s.Capacity(), s.LiteralCapacity()
	logEntry := logger.With(
		zap.Int("ports", s.Ports),
		zap.Int("lcores", s.LCores),
		zap.Int("capacity", capacity),
		zap.Int("optimum", s.OptimumCapacity()),
		zap.String("memory", humanize.IBytes(s.MemoryEstimate(DefaultDataroom))),
	)
	if literal != capacity {
		logEntry.Debug("pool sizing differs from bitwise formula", zap.Int("literal", literal))
		return
	}
	logEntry.Debug("pool sizing")
}

// OptimumCapacity returns Capacity() adjusted for the mempool ring.
// A ring of 2^n slots holds 2^n-1 objects, so a power of two is lowered by one.
func (s PoolSizing) OptimumCapacity() int {
	capacity := s.Capacity()
	if bits.OnesCount64(uint64(capacity)) == 1 {
		capacity--
	}
	return capacity
}
