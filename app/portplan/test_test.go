package portplan_test

import (
	"errors"

	"github.com/stretchr/testify/assert"
	"github.com/usnistgov/portplan/app/portplan"
	"github.com/usnistgov/portplan/core/testenv"
)

var (
	makeAR = testenv.MakeAR
	toJSON = testenv.ToJSON
)

// assertError checks that e is a *portplan.Error of kind and returns it.
func assertError(a *assert.Assertions, kind portplan.Kind, e error, msgAndArgs ...any) *portplan.Error {
	var pe *portplan.Error
	if !a.ErrorAs(e, &pe, msgAndArgs...) {
		return &portplan.Error{}
	}
	a.True(errors.Is(e, kind), msgAndArgs...)
	a.Equal(kind, pe.Kind, msgAndArgs...)
	return pe
}
