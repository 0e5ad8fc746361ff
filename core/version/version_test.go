package version_test

import (
	"runtime/debug"
	"testing"

	"github.com/usnistgov/portplan/core/testenv"
	"github.com/usnistgov/portplan/core/version"
)

func TestFromBuildInfo(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	const rev = "0123456789abcdef0123456789abcdef01234567"
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/usnistgov/portplan", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs", Value: "git"},
			{Key: "vcs.revision", Value: rev},
			{Key: "vcs.time", Value: "2024-03-05T06:07:08Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	v := version.FromBuildInfo(bi)
	assert.Equal("github.com/usnistgov/portplan", v.Module)
	assert.Equal(rev, v.Commit)
	assert.True(v.Dirty)
	assert.Equal("v0.0.0-20240305060708-0123456789ab+dirty", v.String())

	bi.Main.Version = "v1.2.0"
	assert.Equal("v1.2.0", version.FromBuildInfo(bi).Version)

	bi.Main.Version = ""
	bi.Settings = nil
	v = version.FromBuildInfo(bi)
	assert.Equal("(devel)", v.Version)
	assert.Equal("", v.Commit)

	assert.NotEmpty(version.V.String())
}
