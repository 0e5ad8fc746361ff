package eal

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// LCore represents a logical core.
// Zero value is invalid lcore.
type LCore struct {
	v int // lcore ID + 1
}

// LCoreFromID converts lcore ID to LCore.
func LCoreFromID(id int) (lc LCore) {
	if id < 0 || id > MaxLCoreID {
		return lc
	}
	lc.v = id + 1
	return lc
}

// ID returns lcore ID.
func (lc LCore) ID() int {
	return lc.v - 1
}

// Valid returns true if this is a valid lcore (not zero value).
func (lc LCore) Valid() bool {
	return lc.v != 0
}

func (lc LCore) String() string {
	if !lc.Valid() {
		return "invalid"
	}
	return strconv.Itoa(lc.ID())
}

// MarshalJSON encodes lcore as its numeric ID.
// Invalid lcore is encoded as null.
func (lc LCore) MarshalJSON() ([]byte, error) {
	if !lc.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(lc.ID())), nil
}

// LCores is a list of lcores.
type LCores []LCore

// IDs returns lcore IDs.
func (lcs LCores) IDs() (list []int) {
	for _, lc := range lcs {
		list = append(list, lc.ID())
	}
	return list
}

// Has determines whether lc is in the list.
func (lcs LCores) Has(lc LCore) bool {
	for _, l := range lcs {
		if l == lc {
			return true
		}
	}
	return false
}

// Filter returns lcores that satisfy all predicates.
func (lcs LCores) Filter(predicates ...LCorePredicate) (filtered LCores) {
L:
	for _, lc := range lcs {
		for _, pred := range predicates {
			if !pred(lc) {
				continue L
			}
		}
		filtered = append(filtered, lc)
	}
	return filtered
}

func (lcs LCores) String() string {
	var b strings.Builder
	for i, lc := range lcs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(lc.String())
	}
	return b.String()
}

// LCoresFromIDs converts a list of lcore IDs to a sorted, deduplicated LCores.
// Out-of-range IDs are skipped.
func LCoresFromIDs(ids ...int) (lcs LCores) {
	seen := map[int]bool{}
	for _, id := range ids {
		lc := LCoreFromID(id)
		if !lc.Valid() {
			logger.Warn("ignoring out-of-range lcore", zap.Int("id", id))
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		lcs = append(lcs, lc)
	}
	sort.Slice(lcs, func(i, j int) bool { return lcs[i].v < lcs[j].v })
	return lcs
}

// LCorePredicate is a function that tests an lcore.
type LCorePredicate func(lc LCore) bool

// LCoreIsEnabled returns a predicate that accepts lcores in the list.
// This is equivalent to rte_lcore_is_enabled after EAL initialization with this lcore list.
func LCoreIsEnabled(enabled LCores) LCorePredicate {
	set := [MaxLCoreID + 1]bool{}
	for _, lc := range enabled {
		if lc.Valid() {
			set[lc.ID()] = true
		}
	}
	return func(lc LCore) bool {
		return lc.Valid() && set[lc.ID()]
	}
}

// Negate returns a predicate that accepts lcores rejected by pred.
func (pred LCorePredicate) Negate() LCorePredicate {
	return func(lc LCore) bool {
		return !pred(lc)
	}
}
