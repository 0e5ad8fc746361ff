// Package version reports the portplan build version.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version describes a portplan build.
type Version struct {
	Module  string    `json:"module"`
	Version string    `json:"version"`
	Commit  string    `json:"commit,omitempty"`
	Date    time.Time `json:"date"`
	Dirty   bool      `json:"dirty,omitempty"`
}

func (v Version) String() string {
	return v.Version
}

const develVersion = "(devel)"

// V is the version of the running binary.
var V = func() Version {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Version{Version: develVersion}
	}
	return FromBuildInfo(bi)
}()

// FromBuildInfo derives Version from build information.
// A released module version is used as is.
// Otherwise, a pseudo-version is constructed from VCS stamping, or "(devel)" if the build is unstamped.
func FromBuildInfo(bi *debug.BuildInfo) (v Version) {
	v.Module = bi.Main.Path
	v.Version = develVersion
	if bi.Main.Version != "" && bi.Main.Version != develVersion {
		v.Version = bi.Main.Version
	}

	settings := map[string]string{}
	for _, kv := range bi.Settings {
		settings[kv.Key] = kv.Value
	}
	if settings["vcs"] != "git" || len(settings["vcs.revision"]) != 40 {
		return v
	}
	v.Commit = settings["vcs.revision"]
	v.Dirty = settings["vcs.modified"] == "true"
	if dt, e := time.Parse(time.RFC3339, settings["vcs.time"]); e == nil {
		v.Date = dt.UTC()
	}

	if v.Version == develVersion && !v.Date.IsZero() {
		v.Version = fmt.Sprintf("v0.0.0-%s-%s", v.Date.Format("20060102150405"), v.Commit[:12])
		if v.Dirty {
			v.Version += "+dirty"
		}
	}
	return v
}
