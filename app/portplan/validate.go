package portplan

import (
	"github.com/usnistgov/portplan/dpdk/ethdev"
)

// PortValidator determines whether the device layer recognizes a port.
// ethdev.Provider satisfies this interface.
type PortValidator interface {
	IsValid(id ethdev.ID) bool
}

// ValidatePairs checks port pairs against the enabled port mask and the device layer.
// Every member port must be enabled in mask, recognized by dev, and not used by an earlier pair or earlier in the same pair.
// It returns mask narrowed to ports that appear in pairs.
// If pairs is empty, mask is returned unchanged.
func ValidatePairs(pairs PortPairs, mask ethdev.Mask, dev PortValidator) (ethdev.Mask, error) {
	if len(pairs) == 0 {
		return mask, nil
	}

	var seen ethdev.Mask
	for _, pair := range pairs {
		for _, port := range [2]ethdev.ID{pair.A, pair.B} {
			if !mask.Has(port) {
				return 0, NewError(InconsistentConfig, "unmapped port, not enabled in port mask %s", mask).WithPort(int(port))
			}
			if !dev.IsValid(port) {
				return 0, NewError(InvalidDevice, "invalid port").WithPort(int(port))
			}
			if seen.Has(port) {
				return 0, NewError(InconsistentConfig, "duplicate port usage in %s", pair).WithPort(int(port))
			}
			seen = seen.Set(port)
		}
	}
	return mask & seen, nil
}

// CheckMask ensures mask does not enable ports beyond the number of present ports.
func CheckMask(mask ethdev.Mask, nPorts int) error {
	valid := ethdev.MaskBelow(nPorts)
	if mask&^valid != 0 {
		return NewError(InconsistentConfig, "port mask %s enables nonexistent ports, try %s", mask, valid).withCount(nPorts)
	}
	return nil
}
