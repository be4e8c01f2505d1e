package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emission struct {
	at    time.Duration
	query string
}

type recorder struct {
	mu    sync.Mutex
	clock *ManualScheduler
	got   []emission
}

func (r *recorder) emit(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, emission{at: r.clock.Now(), query: q})
}

func (r *recorder) emissions() []emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emission(nil), r.got...)
}

func newTestDebouncer() (*Debouncer, *ManualScheduler, *recorder) {
	clock := NewManualScheduler()
	rec := &recorder{clock: clock}
	d := New(DefaultWindow, rec.emit, WithScheduler(clock))
	return d, clock, rec
}

func TestDebouncer_SingleEmissionAfterQuietWindow(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Update("s")
	clock.AdvanceTo(50 * time.Millisecond)
	d.Update("sa")
	clock.AdvanceTo(100 * time.Millisecond)
	d.Update("san")

	clock.AdvanceTo(399 * time.Millisecond)
	assert.Empty(t, rec.emissions(), "nothing should fire before the window closes")

	clock.AdvanceTo(time.Second)
	got := rec.emissions()
	require.Len(t, got, 1)
	assert.Equal(t, 400*time.Millisecond, got[0].at)
	assert.Equal(t, "san", got[0].query)
}

func TestDebouncer_StartEmitsImmediately(t *testing.T) {
	d, _, rec := newTestDebouncer()

	d.Start("")

	got := rec.emissions()
	require.Len(t, got, 1)
	assert.Equal(t, time.Duration(0), got[0].at)
	assert.Equal(t, "", got[0].query)
}

func TestDebouncer_ClearBypassesWindow(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Update("ortho")
	clock.AdvanceTo(120 * time.Millisecond)
	d.Clear()

	got := rec.emissions()
	require.Len(t, got, 1)
	assert.Equal(t, 120*time.Millisecond, got[0].at)
	assert.Equal(t, "", got[0].query)

	clock.AdvanceTo(time.Second)
	assert.Len(t, rec.emissions(), 1, "cleared keystroke must not fire later")
	assert.False(t, d.Pending())
}

func TestDebouncer_SeparatePausesEmitSeparately(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Update("a")
	clock.AdvanceTo(500 * time.Millisecond)
	d.Update("ab")
	clock.AdvanceTo(time.Second)

	got := rec.emissions()
	require.Len(t, got, 2)
	assert.Equal(t, emission{at: 300 * time.Millisecond, query: "a"}, got[0])
	assert.Equal(t, emission{at: 800 * time.Millisecond, query: "ab"}, got[1])
}

func TestDebouncer_AtMostOneTimerPending(t *testing.T) {
	d, clock, _ := newTestDebouncer()

	for _, q := range []string{"i", "im", "imp", "impl"} {
		d.Update(q)
		assert.Equal(t, 1, clock.Pending())
	}
	assert.True(t, d.Pending())
}

func TestDebouncer_FlushEmitsPendingValue(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Flush()
	assert.Empty(t, rec.emissions(), "flush without a pending value is a no-op")

	d.Update("veneers")
	d.Flush()
	got := rec.emissions()
	require.Len(t, got, 1)
	assert.Equal(t, "veneers", got[0].query)

	clock.AdvanceTo(time.Second)
	assert.Len(t, rec.emissions(), 1)
}

func TestDebouncer_StopCancelsAndIgnoresLaterInput(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Update("x")
	d.Stop()
	d.Update("y")
	d.Clear()
	d.Start("")
	clock.AdvanceTo(time.Second)

	assert.Empty(t, rec.emissions())
}

func TestNew_DefaultsWindow(t *testing.T) {
	d := New(0, nil)
	assert.Equal(t, DefaultWindow, d.Window())
}

func TestDebouncer_RealScheduler(t *testing.T) {
	done := make(chan string, 1)
	d := New(10*time.Millisecond, func(q string) { done <- q })

	d.Update("re")
	d.Update("root")

	select {
	case q := <-done:
		assert.Equal(t, "root", q)
	case <-time.After(time.Second):
		t.Fatal("expected an emission")
	}
}
