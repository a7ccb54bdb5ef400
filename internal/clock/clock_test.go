package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFake_FiresInDeadlineOrder(t *testing.T) {
	c := NewFake()
	var order []string

	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)

	c.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, c.Pending())
}

func TestFake_StopPreventsCallback(t *testing.T) {
	c := NewFake()
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop is a no-op")

	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestFake_CallbackSchedulesWithinWindow(t *testing.T) {
	c := NewFake()
	var ticks int
	var tick func()
	tick = func() {
		ticks++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(5 * time.Second)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC), c.Now())
}

func TestDebouncer_LastWriteWins(t *testing.T) {
	c := NewFake()
	var calls int
	d := NewDebouncer(c, 300*time.Millisecond, func() { calls++ })

	d.Trigger()
	c.Advance(200 * time.Millisecond)
	d.Trigger()
	c.Advance(200 * time.Millisecond)
	assert.Equal(t, 0, calls, "quiet period restarted by second trigger")

	c.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, calls)

	c.Advance(time.Second)
	assert.Equal(t, 1, calls)
}

func TestDebouncer_Stop(t *testing.T) {
	c := NewFake()
	var calls int
	d := NewDebouncer(c, 300*time.Millisecond, func() { calls++ })

	d.Trigger()
	d.Stop()
	c.Advance(time.Second)
	assert.Equal(t, 0, calls)
}

func TestDebouncer_RealClock(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{})
	d := NewDebouncer(Real{}, 10*time.Millisecond, func() {
		if calls.Add(1) == 1 {
			close(done)
		}
	})

	for i := 0; i < 5; i++ {
		d.Trigger()
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}
