package ethdev_test

import (
	"testing"

	"github.com/usnistgov/portplan/dpdk/ethdev"
)

func TestMask(t *testing.T) {
	assert, _ := makeAR(t)

	m := ethdev.MaskOf(0, 3, 5, 40)
	assert.Equal(ethdev.Mask(0x29), m)
	assert.True(m.Has(3))
	assert.False(m.Has(4))
	assert.False(m.Has(40))
	assert.Equal(3, m.Count())
	assert.Equal([]ethdev.ID{0, 3, 5}, m.IDs())
	assert.Equal("0x29", m.String())
	assert.Equal(`"0x29"`, toJSON(m))

	assert.Equal(ethdev.Mask(0), ethdev.MaskBelow(0))
	assert.Equal(ethdev.Mask(0x7), ethdev.MaskBelow(3))
	assert.Equal(ethdev.Mask(0xFFFFFFFF), ethdev.MaskBelow(ethdev.MaxEthPorts))
	assert.Len(ethdev.MaskBelow(ethdev.MaxEthPorts).IDs(), ethdev.MaxEthPorts)

	assert.True(ethdev.ID(31).Valid())
	assert.False(ethdev.ID(32).Valid())
}

func TestLink(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal("Link down", ethdev.Link{SpeedMbps: 10000, FullDuplex: true}.String())
	assert.Equal("Link up at 10 Gbps FDX Autoneg", ethdev.Link{Up: true, SpeedMbps: 10000, FullDuplex: true, Autoneg: true}.String())
	assert.Equal("Link up at 100 Mbps HDX Fixed", ethdev.Link{Up: true, SpeedMbps: 100}.String())
	assert.Equal("Link up at 2.5 Gbps FDX Fixed", ethdev.Link{Up: true, SpeedMbps: 2500, FullDuplex: true}.String())
	assert.Equal("Link up at Unknown FDX Autoneg", ethdev.Link{Up: true, SpeedMbps: ethdev.SpeedUnknown, FullDuplex: true, Autoneg: true}.String())
	assert.Equal("None", ethdev.Link{}.SpeedString())
}
