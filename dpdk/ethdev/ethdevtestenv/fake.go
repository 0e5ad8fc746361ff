// Package ethdevtestenv provides an in-memory ethdev.Provider for tests.
package ethdevtestenv

import (
	"sort"
	"sync"

	"github.com/usnistgov/portplan/dpdk/ethdev"
)

// DefaultLink is the link status reported by an up port unless overridden.
var DefaultLink = ethdev.Link{
	Up:         true,
	SpeedMbps:  10000,
	FullDuplex: true,
	Autoneg:    true,
}

// Fake is a scriptable ethdev.Provider.
type Fake struct {
	mu      sync.Mutex
	present []ethdev.ID
	invalid map[ethdev.ID]bool
	links   map[ethdev.ID]ethdev.Link
	upAfter map[ethdev.ID]int
	errs    map[ethdev.ID]error
	polls   map[ethdev.ID]int
}

var _ ethdev.Provider = (*Fake)(nil)

// New creates a Fake with present ports.
// Each port reports DefaultLink.
func New(ports ...ethdev.ID) *Fake {
	f := &Fake{
		invalid: map[ethdev.ID]bool{},
		links:   map[ethdev.ID]ethdev.Link{},
		upAfter: map[ethdev.ID]int{},
		errs:    map[ethdev.ID]error{},
		polls:   map[ethdev.ID]int{},
	}
	f.present = append(f.present, ports...)
	sort.Slice(f.present, func(i, j int) bool { return f.present[i] < f.present[j] })
	for _, id := range f.present {
		f.links[id] = DefaultLink
	}
	return f
}

// NewCount creates a Fake with ports 0..n-1.
func NewCount(n int) *Fake {
	ports := make([]ethdev.ID, n)
	for i := range ports {
		ports[i] = ethdev.ID(i)
	}
	return New(ports...)
}

// SetLink changes the link status reported for a port.
func (f *Fake) SetLink(id ethdev.ID, link ethdev.Link) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links[id] = link
}

// SetDown makes a port report link down forever.
func (f *Fake) SetDown(id ethdev.ID) {
	f.SetLink(id, ethdev.Link{})
}

// SetUpAfter makes a port report link down for the first n-1 queries, and its link status afterwards.
func (f *Fake) SetUpAfter(id ethdev.ID, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upAfter[id] = n
}

// SetError makes link queries on a port fail.
func (f *Fake) SetError(id ethdev.ID, e error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[id] = e
}

// SetInvalid makes IsValid reject a port ID even if it is present.
func (f *Fake) SetInvalid(id ethdev.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalid[id] = true
}

// Polls returns the number of LinkGet invocations on a port.
func (f *Fake) Polls(id ethdev.ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls[id]
}

// TotalPolls returns the number of LinkGet invocations on all ports.
func (f *Fake) TotalPolls() (n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cnt := range f.polls {
		n += cnt
	}
	return n
}

// Ports implements ethdev.Provider interface.
func (f *Fake) Ports() []ethdev.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ethdev.ID(nil), f.present...)
}

// IsValid implements ethdev.Provider interface.
func (f *Fake) IsValid(id ethdev.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !id.Valid() || f.invalid[id] {
		return false
	}
	_, ok := f.links[id]
	return ok
}

// LinkGet implements ethdev.Provider interface.
func (f *Fake) LinkGet(id ethdev.ID) (link ethdev.Link, e error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls[id]++
	if e = f.errs[id]; e != nil {
		return ethdev.Link{}, e
	}
	if n, ok := f.upAfter[id]; ok && f.polls[id] < n {
		return ethdev.Link{}, nil
	}
	return f.links[id], nil
}
