package hwinfo

import (
	"fmt"
	"math/big"

	procinfo "github.com/c9s/goprocinfo/linux"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	pathCPUInfo       = "/proc/cpuinfo"
	pathProcessStatus = "/proc/self/status"
	pathSystemNode    = "/sys/devices/system/node"
	maxNumaNode       = 32
)

// procinfoProvider gathers CPU cores that the current process is allowed to run on.
type procinfoProvider struct {
	cachedCores Cores
}

func (p *procinfoProvider) Cores() (cores Cores) {
	if len(p.cachedCores) > 0 {
		return p.cachedCores
	}

	status, e := procinfo.ReadProcessStatus(pathProcessStatus)
	if e != nil {
		logger.Panic(pathProcessStatus, zap.Error(e))
	}
	allowed := &big.Int{}
	for _, word := range status.CpusAllowed {
		allowed.Lsh(allowed, 32)
		allowed.Add(allowed, big.NewInt(int64(word)))
	}

	cpuInfo, e := procinfo.ReadCPUInfo(pathCPUInfo)
	if e != nil {
		logger.Panic(pathCPUInfo, zap.Error(e))
	}

	for _, processor := range cpuInfo.Processors {
		if allowed.Bit(int(processor.Id)) == 0 {
			continue
		}
		cores = append(cores, CoreInfo{
			NumaSocket:   p.findNumaSocket(processor),
			PhysicalCore: int(processor.PhysicalId)<<16 | int(processor.CoreId),
			LogicalCore:  int(processor.Id),
		})
	}

	logger.Debug("gathered CPU cores", zap.Int("count", len(cores)))
	p.cachedCores = cores
	return cores
}

// findNumaSocket returns the NUMA node containing a processor, or 0 on a non-NUMA system.
func (procinfoProvider) findNumaSocket(processor procinfo.Processor) int {
	for i := 0; i < maxNumaNode; i++ {
		path := fmt.Sprintf("%s/node%d/cpu%d", pathSystemNode, i, processor.Id)
		if unix.Access(path, unix.F_OK) == nil {
			return i
		}
	}
	return 0
}
