package ethdev_test

import (
	"github.com/usnistgov/portplan/core/testenv"
)

var (
	makeAR = testenv.MakeAR
	toJSON = testenv.ToJSON
)
