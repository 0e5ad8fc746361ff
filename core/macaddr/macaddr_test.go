package macaddr_test

import (
	"encoding/json"
	"testing"

	"github.com/usnistgov/portplan/core/macaddr"
	"github.com/usnistgov/portplan/core/testenv"
)

var makeAR = testenv.MakeAR

func TestAddr(t *testing.T) {
	assert, require := makeAR(t)

	zero, e := macaddr.Parse("00:00:00:00:00:00")
	require.NoError(e)
	uA1, e := macaddr.Parse("02:00:00:00:00:A1")
	require.NoError(e)
	mA1, e := macaddr.Parse("03:00:00:00:00:a1")
	require.NoError(e)
	_, e = macaddr.Parse("02:00:00:00:00:00:00:64")
	assert.Error(e)
	_, e = macaddr.Parse("x")
	assert.Error(e)

	assert.True(zero.IsValid())
	assert.False(zero.IsUnicast())
	assert.False(zero.IsMulticast())
	assert.True(uA1.IsUnicast())
	assert.False(uA1.IsMulticast())
	assert.False(mA1.IsUnicast())
	assert.True(mA1.IsMulticast())

	assert.Equal("02:00:00:00:00:a1", uA1.String())
	assert.Equal("unknown", macaddr.Addr{}.String())
}

func TestJSON(t *testing.T) {
	assert, require := makeAR(t)

	var v struct {
		A macaddr.Addr `json:"a"`
		B macaddr.Addr `json:"b"`
	}
	require.NoError(json.Unmarshal([]byte(`{"a":"02:00:00:00:00:A0","b":""}`), &v))
	assert.True(v.A.IsUnicast())
	assert.False(v.B.IsValid())

	j, e := json.Marshal(v)
	require.NoError(e)
	assert.JSONEq(`{"a":"02:00:00:00:00:a0","b":""}`, string(j))

	assert.Error(json.Unmarshal([]byte(`{"a":"zz"}`), &v))
}
