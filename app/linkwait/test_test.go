package linkwait_test

import (
	"context"
	"time"

	"github.com/usnistgov/portplan/core/testenv"
)

var (
	makeAR = testenv.MakeAR
	toJSON = testenv.ToJSON
)

// recordSleeper records sleep durations without sleeping.
type recordSleeper struct {
	durations []time.Duration
}

func (s *recordSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.durations = append(s.durations, d)
	return ctx.Err()
}
