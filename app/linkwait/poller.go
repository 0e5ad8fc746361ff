// Package linkwait waits for Ethernet ports to report link up.
package linkwait

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rickb777/plural"
	"github.com/usnistgov/portplan/core/events"
	"github.com/usnistgov/portplan/core/logging"
	"github.com/usnistgov/portplan/dpdk/ethdev"
	"go.uber.org/zap"
)

var logger = logging.New("linkwait")

var pluralCycles = plural.FromOne("%d cycle", "%d cycles")

const (
	evtState      = "state"
	evtSnapshot   = "snapshot"
	evtPortStatus = "port-status"
)

// LinkGetter queries link status of a port.
// ethdev.Provider satisfies this interface.
type LinkGetter interface {
	LinkGet(id ethdev.ID) (ethdev.Link, error)
}

// Snapshot describes one polling cycle.
type Snapshot struct {
	Cycle     int         `json:"cycle"`
	Checked   int         `json:"checked"`
	Down      int         `json:"down"`
	DownPorts []ethdev.ID `json:"downPorts,omitempty"`
}

// PortStatus is the status of a port in the final report.
type PortStatus struct {
	Port ethdev.ID
	Link ethdev.Link
	Err  error
}

func (ps PortStatus) String() string {
	if ps.Err != nil {
		return fmt.Sprintf("Port %d link failed: %v", ps.Port, ps.Err)
	}
	return fmt.Sprintf("Port %d => %s", ps.Port, ps.Link)
}

// MarshalJSON implements json.Marshaler interface.
func (ps PortStatus) MarshalJSON() ([]byte, error) {
	j := struct {
		Port   ethdev.ID    `json:"port"`
		Link   *ethdev.Link `json:"link,omitempty"`
		Status string       `json:"status,omitempty"`
		Error  string       `json:"error,omitempty"`
	}{Port: ps.Port}
	if ps.Err != nil {
		j.Error = ps.Err.Error()
	} else {
		j.Link = &ps.Link
		j.Status = ps.Link.String()
	}
	return json.Marshal(j)
}

// Result is the outcome of Poller.Run.
type Result struct {
	// State is FinalReport or Aborted.
	State State `json:"state"`
	// Converged indicates every port reported link up before the final report.
	Converged bool `json:"converged"`
	// Cycles is the number of completed polling cycles.
	Cycles int `json:"cycles"`
	// Sleeps is the number of sleeps between cycles.
	Sleeps int `json:"sleeps"`
	// Ports contains per-port status collected in the final report.
	Ports []PortStatus `json:"ports"`
}

// Poller polls link status until every port is up or the cycle limit is reached.
type Poller struct {
	cfg     Config
	dev     LinkGetter
	ports   []ethdev.ID
	sleeper Sleeper
	emitter *events.Emitter
}

// New creates a Poller.
func New(cfg Config, dev LinkGetter, ports []ethdev.ID) *Poller {
	cfg.applyDefaults()
	return &Poller{
		cfg:     cfg,
		dev:     dev,
		ports:   append([]ethdev.ID{}, ports...),
		sleeper: DefaultSleeper,
		emitter: events.NewEmitter(),
	}
}

// SetSleeper replaces the sleeper used between polling cycles.
func (p *Poller) SetSleeper(sleeper Sleeper) {
	p.sleeper = sleeper
}

// OnState registers a callback when the state changes.
func (p *Poller) OnState(cb func(st State)) io.Closer {
	return p.emitter.On(evtState, cb)
}

// OnSnapshot registers a callback when a polling cycle completes.
func (p *Poller) OnSnapshot(cb func(snap Snapshot)) io.Closer {
	return p.emitter.On(evtSnapshot, cb)
}

// OnPortStatus registers a callback for each port status in the final report.
func (p *Poller) OnPortStatus(cb func(ps PortStatus)) io.Closer {
	return p.emitter.On(evtPortStatus, cb)
}

func (p *Poller) setState(res *Result, st State) {
	res.State = st
	p.emitter.EmitSync(evtState, st)
}

func (p *Poller) abort(res *Result, cause error) (Result, error) {
	p.setState(res, Aborted)
	logger.Info("link polling aborted",
		zap.Int("cycles", res.Cycles),
		zap.Int("reported", len(res.Ports)),
	)
	return *res, fmt.Errorf("link polling aborted: %w", cause)
}

// Run polls link status of every port.
//
// Each cycle polls every port. When every port is up, or MaxCycles cycles have been completed,
// every port is polled once more to produce the final report.
// Cancellation of ctx is observed before each cycle and before each port query.
func (p *Poller) Run(ctx context.Context) (res Result, e error) {
	p.setState(&res, Polling)
	logger.Debug("checking link status",
		zap.Int("ports", len(p.ports)),
		zap.Int("max-cycles", p.cfg.MaxCycles),
	)

	for cycle := 1; ; cycle++ {
		if e := ctx.Err(); e != nil {
			return p.abort(&res, e)
		}

		snap := Snapshot{Cycle: cycle}
		for _, port := range p.ports {
			if e := ctx.Err(); e != nil {
				return p.abort(&res, e)
			}
			link, e := p.dev.LinkGet(port)
			snap.Checked++
			if e != nil || !link.Up {
				snap.Down++
				snap.DownPorts = append(snap.DownPorts, port)
			}
		}
		res.Cycles = cycle
		p.emitter.EmitSync(evtSnapshot, snap)

		if snap.Down == 0 {
			res.Converged = true
			p.setState(&res, Converged)
			break
		}
		if cycle >= p.cfg.MaxCycles {
			break
		}

		if e := p.sleeper.Sleep(ctx, p.cfg.Interval.DurationOr(DefaultInterval)); e != nil {
			return p.abort(&res, e)
		}
		res.Sleeps++
	}

	p.setState(&res, FinalReport)
	for _, port := range p.ports {
		if e := ctx.Err(); e != nil {
			return p.abort(&res, e)
		}
		var ps PortStatus
		ps.Port = port
		ps.Link, ps.Err = p.dev.LinkGet(port)
		res.Ports = append(res.Ports, ps)
		p.emitter.EmitSync(evtPortStatus, ps)

		if ps.Err != nil {
			logger.Warn("port link failed", zap.Stringer("port", port), zap.Error(ps.Err))
		} else {
			logger.Info(ps.String(), zap.Stringer("port", port), zap.Bool("up", ps.Link.Up))
		}
	}

	if res.Converged {
		logger.Info("all ports are up after " + pluralCycles.FormatInt(res.Cycles))
	} else {
		logger.Warn("some ports are down after " + pluralCycles.FormatInt(res.Cycles))
	}
	return res, nil
}
