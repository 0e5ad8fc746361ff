package events_test

import (
	"io"
	"testing"

	"github.com/usnistgov/portplan/core/events"
	"github.com/usnistgov/portplan/core/testenv"
)

func TestOnCancel(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	nA, nB, nC, nD := 0, 0, 0, 0
	fA := func() { nA++ }
	fB := func() { nB++ }
	fC := func() { nC++ }
	fD := func() { nD++ }

	emitter := events.NewEmitter()
	cancelA := emitter.On(1, fA)
	cancelB := emitter.On(1, fB)
	cancelC := emitter.Once(2, fC)
	cancelD := emitter.Once(2, fD)

	emitter.EmitSync(1)
	assert.Equal(1, nA)
	assert.Equal(1, nB)

	cancelA.Close()
	emitter.EmitSync(1)
	assert.Equal(1, nA)
	assert.Equal(2, nB)

	cancelB.Close()
	emitter.EmitSync(1)
	assert.Equal(1, nA)
	assert.Equal(2, nB)

	cancelD.Close()
	emitter.EmitSync(2)
	assert.Equal(1, nC)
	assert.Equal(0, nD)

	emitter.EmitSync(2)
	assert.Equal(1, nC)
	assert.Equal(0, nD)

	cancelC.Close()
}

func TestArguments(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	var got []int
	emitter := events.NewEmitter()
	defer emitter.On("n", func(n int) { got = append(got, n) }).Close()

	emitter.EmitSync("n", 3)
	emitter.EmitSync("n", 5)
	assert.Equal([]int{3, 5}, got)
}

func TestCancelSibling(t *testing.T) {
	assert, _ := testenv.MakeAR(t)

	emitter := events.NewEmitter()
	counts := make([]int, 3)
	var onClosers, onceClosers []io.Closer
	for i := range counts {
		i := i
		onClosers = append(onClosers, emitter.On("on", func() { counts[i]++ }))
		onceClosers = append(onceClosers, emitter.Once("once", func() { counts[i] += 10 }))
	}
	assert.Equal(3, emitter.CountListeners("on"))
	assert.Equal(3, emitter.CountListeners("once"))

	onClosers[1].Close()
	onceClosers[0].Close()
	assert.Equal(2, emitter.CountListeners("on"))
	assert.Equal(2, emitter.CountListeners("once"))

	emitter.EmitSync("on")
	emitter.EmitSync("once")
	emitter.EmitSync("once")
	assert.Equal([]int{1, 10, 11}, counts)
	assert.Equal(0, emitter.CountListeners("once"))
}
