package linkwait_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/usnistgov/portplan/app/linkwait"
	"github.com/usnistgov/portplan/dpdk/ethdev"
	"github.com/usnistgov/portplan/dpdk/ethdev/ethdevtestenv"
)

func TestAllUpFirst(t *testing.T) {
	assert, require := makeAR(t)

	dev := ethdevtestenv.NewCount(3)
	p := linkwait.New(linkwait.Config{}, dev, dev.Ports())
	var sleeper recordSleeper
	p.SetSleeper(&sleeper)

	var states []linkwait.State
	p.OnState(func(st linkwait.State) { states = append(states, st) })
	var statuses []linkwait.PortStatus
	p.OnPortStatus(func(ps linkwait.PortStatus) { statuses = append(statuses, ps) })

	res, e := p.Run(context.Background())
	require.NoError(e)
	assert.Equal(linkwait.FinalReport, res.State)
	assert.True(res.Converged)
	assert.Equal(1, res.Cycles)
	assert.Equal(0, res.Sleeps)
	assert.Len(sleeper.durations, 0)
	assert.Equal([]linkwait.State{linkwait.Polling, linkwait.Converged, linkwait.FinalReport}, states)

	require.Len(res.Ports, 3)
	assert.Equal(res.Ports, statuses)
	for i, ps := range res.Ports {
		assert.Equal(ethdev.ID(i), ps.Port)
		assert.NoError(ps.Err)
		assert.True(ps.Link.Up)
		assert.Equal(2, dev.Polls(ps.Port))
	}
	assert.Equal("Port 0 => Link up at 10 Gbps FDX Autoneg", res.Ports[0].String())
	assert.Equal(`{"port":0,"link":{"up":true,"speed":10000,"fullDuplex":true,"autoneg":true},"status":"Link up at 10 Gbps FDX Autoneg"}`, toJSON(res.Ports[0]))
}

func TestConvergeLater(t *testing.T) {
	assert, require := makeAR(t)

	dev := ethdevtestenv.NewCount(3)
	dev.SetUpAfter(1, 3)
	p := linkwait.New(linkwait.Config{}, dev, dev.Ports())
	var sleeper recordSleeper
	p.SetSleeper(&sleeper)

	var snaps []linkwait.Snapshot
	closer := p.OnSnapshot(func(snap linkwait.Snapshot) { snaps = append(snaps, snap) })
	defer closer.Close()

	res, e := p.Run(context.Background())
	require.NoError(e)
	assert.Equal(linkwait.FinalReport, res.State)
	assert.True(res.Converged)
	assert.Equal(3, res.Cycles)
	assert.Equal(2, res.Sleeps)
	assert.Equal([]time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, sleeper.durations)
	assert.Equal([]linkwait.Snapshot{
		{Cycle: 1, Checked: 3, Down: 1, DownPorts: []ethdev.ID{1}},
		{Cycle: 2, Checked: 3, Down: 1, DownPorts: []ethdev.ID{1}},
		{Cycle: 3, Checked: 3, Down: 0},
	}, snaps)
}

func TestCallbackCancel(t *testing.T) {
	assert, require := makeAR(t)

	dev := ethdevtestenv.NewCount(2)
	p := linkwait.New(linkwait.Config{}, dev, dev.Ports())
	p.SetSleeper(&recordSleeper{})

	counts := make([]int, 2)
	var closers []io.Closer
	for i := range counts {
		i := i
		closers = append(closers, p.OnSnapshot(func(linkwait.Snapshot) { counts[i]++ }))
	}
	nStatus := 0
	statusClosers := []io.Closer{
		p.OnPortStatus(func(linkwait.PortStatus) { nStatus++ }),
		p.OnPortStatus(func(linkwait.PortStatus) { nStatus++ }),
	}
	closers[0].Close()
	statusClosers[1].Close()

	_, e := p.Run(context.Background())
	require.NoError(e)
	assert.Equal([]int{0, 1}, counts)
	assert.Equal(2, nStatus)
}

func TestTimeout(t *testing.T) {
	assert, require := makeAR(t)

	dev := ethdevtestenv.NewCount(3)
	dev.SetDown(2)
	p := linkwait.New(linkwait.Config{MaxCycles: 5, Interval: 20}, dev, []ethdev.ID{0, 2})
	var sleeper recordSleeper
	p.SetSleeper(&sleeper)

	res, e := p.Run(context.Background())
	require.NoError(e)
	assert.Equal(linkwait.FinalReport, res.State)
	assert.False(res.Converged)
	assert.Equal(5, res.Cycles)
	assert.Equal(4, res.Sleeps)
	assert.Len(sleeper.durations, 4)
	assert.Equal(20*time.Millisecond, sleeper.durations[0])

	require.Len(res.Ports, 2)
	assert.True(res.Ports[0].Link.Up)
	assert.False(res.Ports[1].Link.Up)
	assert.NoError(res.Ports[1].Err)
	assert.Equal("Port 2 => Link down", res.Ports[1].String())
	assert.Equal(0, dev.Polls(1))
	assert.Equal(6, dev.Polls(2))
}

func TestPollError(t *testing.T) {
	assert, require := makeAR(t)

	dev := ethdevtestenv.NewCount(2)
	errNoLink := errors.New("operation not supported")
	dev.SetError(1, errNoLink)
	p := linkwait.New(linkwait.Config{MaxCycles: 2}, dev, dev.Ports())
	p.SetSleeper(&recordSleeper{})

	res, e := p.Run(context.Background())
	require.NoError(e)
	assert.False(res.Converged)
	require.Len(res.Ports, 2)
	assert.NoError(res.Ports[0].Err)
	assert.ErrorIs(res.Ports[1].Err, errNoLink)
	assert.Equal("Port 1 link failed: operation not supported", res.Ports[1].String())
	assert.Equal(`{"port":1,"error":"operation not supported"}`, toJSON(res.Ports[1]))
}

func TestAbortBeforeCycle(t *testing.T) {
	assert, _ := makeAR(t)

	dev := ethdevtestenv.NewCount(2)
	p := linkwait.New(linkwait.Config{}, dev, dev.Ports())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, e := p.Run(ctx)
	assert.ErrorIs(e, context.Canceled)
	assert.Equal(linkwait.Aborted, res.State)
	assert.Equal(0, res.Cycles)
	assert.Equal(0, dev.TotalPolls())
}

// cancelingDev cancels the context when a port is queried.
type cancelingDev struct {
	*ethdevtestenv.Fake
	port   ethdev.ID
	after  int
	cancel context.CancelFunc
}

func (d cancelingDev) LinkGet(id ethdev.ID) (ethdev.Link, error) {
	link, e := d.Fake.LinkGet(id)
	if id == d.port && d.Fake.Polls(id) >= d.after {
		d.cancel()
	}
	return link, e
}

func TestAbortMidCycle(t *testing.T) {
	assert, _ := makeAR(t)

	fake := ethdevtestenv.NewCount(4)
	fake.SetDown(3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dev := cancelingDev{Fake: fake, port: 1, after: 2, cancel: cancel}

	p := linkwait.New(linkwait.Config{}, dev, fake.Ports())
	var sleeper recordSleeper
	p.SetSleeper(&sleeper)

	res, e := p.Run(ctx)
	assert.ErrorIs(e, context.Canceled)
	assert.Equal(linkwait.Aborted, res.State)
	assert.Equal(1, res.Cycles)
	assert.Equal(1, res.Sleeps)
	assert.Equal(2, fake.Polls(1))
	assert.Equal(1, fake.Polls(2))
	assert.Equal(1, fake.Polls(3))
}

func TestAbortDuringSleep(t *testing.T) {
	assert, _ := makeAR(t)

	dev := ethdevtestenv.NewCount(1)
	dev.SetDown(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := linkwait.New(linkwait.Config{Interval: 60000}, dev, dev.Ports())
	p.SetSleeper(linkwait.SleeperFunc(func(ctx context.Context, d time.Duration) error {
		cancel()
		return linkwait.DefaultSleeper.Sleep(ctx, d)
	}))

	res, e := p.Run(ctx)
	assert.ErrorIs(e, context.Canceled)
	assert.Equal(linkwait.Aborted, res.State)
	assert.Equal(1, res.Cycles)
	assert.Equal(0, res.Sleeps)
}

func TestAbortDuringFinalReport(t *testing.T) {
	assert, _ := makeAR(t)

	dev := ethdevtestenv.NewCount(2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := linkwait.New(linkwait.Config{}, dev, dev.Ports())
	p.OnPortStatus(func(linkwait.PortStatus) { cancel() })

	res, e := p.Run(ctx)
	assert.ErrorIs(e, context.Canceled)
	assert.Equal(linkwait.Aborted, res.State)
	assert.True(res.Converged)
	assert.Len(res.Ports, 1)
}

func TestDefaultSleeper(t *testing.T) {
	assert, _ := makeAR(t)

	t0 := time.Now()
	assert.NoError(linkwait.DefaultSleeper.Sleep(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(time.Since(t0), 10*time.Millisecond)
}
