package inbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(d *Debouncer, wait time.Duration) []string {
	var out []string
	timeout := time.After(wait)
	for {
		select {
		case p := <-d.Events():
			out = append(out, p)
		case <-timeout:
			return out
		}
	}
}

func TestDebouncer_Single(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	d.Add("a.jpg")
	select {
	case p := <-d.Events():
		assert.Equal(t, "a.jpg", p)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestDebouncer_CoalescesWrites(t *testing.T) {
	d := NewDebouncer(80 * time.Millisecond)
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Add("clip.m4a")
		time.Sleep(10 * time.Millisecond)
	}
	d.Add("other.jpg")

	got := collect(d, 300*time.Millisecond)
	assert.ElementsMatch(t, []string{"clip.m4a", "other.jpg"}, got)
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	d.Add("gone.jpg")
	require.Equal(t, 1, d.PendingCount())
	d.Cancel("gone.jpg")
	assert.Zero(t, d.PendingCount())
	assert.Empty(t, collect(d, 150*time.Millisecond))
}

func TestDebouncer_StopDiscards(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	d.Add("a.jpg")
	d.Stop()
	d.Stop()
	d.Add("b.jpg")

	assert.Zero(t, d.PendingCount())
	assert.Empty(t, collect(d, 150*time.Millisecond))
}
