package toast

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"portal/internal/core/event"
	"portal/internal/domain"
	"portal/internal/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	d       time.Duration
	fire    func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) afterFunc(d time.Duration, f func()) timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, fire: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[len(c.timers)-1]
}

func newTestBroadcaster(opts ...Option) (*Broadcaster, *fakeClock) {
	clock := &fakeClock{}
	b := NewBroadcaster(logger.NewNop(), opts...)
	b.afterFunc = clock.afterFunc
	return b, clock
}

func TestBroadcaster_ShowUsesDefaultDuration(t *testing.T) {
	b, clock := newTestBroadcaster()

	shown := b.Show("Login successful.")

	assert.Equal(t, 4000*time.Millisecond, shown.Duration)
	assert.Equal(t, 4000*time.Millisecond, clock.last().d)

	current, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "Login successful.", current.Message)
	assert.Equal(t, int64(4000), current.DurationMs())
}

func TestBroadcaster_ExplicitDuration(t *testing.T) {
	b, clock := newTestBroadcaster()

	b.Show("saved", 1500*time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, clock.last().d)

	b.Show("saved again", 0)
	assert.Equal(t, domain.DefaultToastDuration, clock.last().d)
}

func TestBroadcaster_LastWriteWins(t *testing.T) {
	b, clock := newTestBroadcaster()

	first := b.Show("first")
	firstTimer := clock.last()
	second := b.Show("second")

	current, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, "second", current.Message)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, firstTimer.stopped)

	// The first toast's timer firing late must not clear the second toast.
	firstTimer.fire()
	current, ok = b.Current()
	require.True(t, ok)
	assert.Equal(t, "second", current.Message)
}

func TestBroadcaster_TimeoutClears(t *testing.T) {
	b, clock := newTestBroadcaster()

	b.Show("bye")
	clock.last().fire()

	_, ok := b.Current()
	assert.False(t, ok)
}

func TestBroadcaster_ClickawayIsIgnored(t *testing.T) {
	b, _ := newTestBroadcaster()
	b.Show("stay")

	assert.False(t, b.Dismiss(domain.DismissClickaway))

	_, ok := b.Current()
	assert.True(t, ok)
}

func TestBroadcaster_CloseDismisses(t *testing.T) {
	b, clock := newTestBroadcaster()
	b.Show("close me")

	assert.True(t, b.Dismiss(domain.DismissClose))
	assert.True(t, clock.last().stopped)

	_, ok := b.Current()
	assert.False(t, ok)
	assert.False(t, b.Dismiss(domain.DismissClose))
}

func TestBroadcaster_EmptyMessageClears(t *testing.T) {
	b, _ := newTestBroadcaster()
	b.Show("something")

	b.Show("")

	_, ok := b.Current()
	assert.False(t, ok)
}

func TestBroadcaster_PublishesEvents(t *testing.T) {
	bus := event.New(logger.NewNop())
	var got []any
	bus.Subscribe(domain.ToastShown{}, func(ev any) { got = append(got, ev) })
	bus.Subscribe(domain.ToastDismissed{}, func(ev any) { got = append(got, ev) })

	b, clock := newTestBroadcaster(WithBus(bus))
	shown := b.Show("hello")
	clock.last().fire()

	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), shown.Seq)
	assert.Equal(t, domain.ToastShown{Toast: shown}, got[0])
	assert.Equal(t, domain.ToastDismissed{Seq: 2, ID: shown.ID, Reason: domain.DismissTimeout}, got[1])
}

func TestBroadcaster_OwnerTagsEvents(t *testing.T) {
	bus := event.New(logger.NewNop())
	var owners []string
	bus.Subscribe(domain.ToastShown{}, func(ev any) { owners = append(owners, ev.(domain.ToastShown).Owner) })
	bus.Subscribe(domain.ToastDismissed{}, func(ev any) { owners = append(owners, ev.(domain.ToastDismissed).Owner) })

	b, _ := newTestBroadcaster(WithBus(bus), WithOwner("browser-a"))
	b.Show("hi")
	b.Dismiss(domain.DismissClose)

	assert.Equal(t, []string{"browser-a", "browser-a"}, owners)
}

func TestBroadcaster_ConcurrentShowsPublishInSlotOrder(t *testing.T) {
	bus := event.New(logger.NewNop())

	var mu sync.Mutex
	var seqs []uint64
	var lastID uuid.UUID
	bus.Subscribe(domain.ToastShown{}, func(ev any) {
		shown := ev.(domain.ToastShown)
		// Widen the window between the slot change and delivery.
		runtime.Gosched()
		mu.Lock()
		seqs = append(seqs, shown.Toast.Seq)
		lastID = shown.Toast.ID
		mu.Unlock()
	})

	b, _ := newTestBroadcaster(WithBus(bus))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Show(fmt.Sprintf("login %d", i))
		}(i)
	}
	wg.Wait()

	current, ok := b.Current()
	require.True(t, ok)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seqs, 50)
	assert.IsIncreasing(t, seqs)
	assert.Equal(t, current.ID, lastID)
}

func TestBroadcaster_RealTimerExpires(t *testing.T) {
	b := NewBroadcaster(logger.NewNop())

	b.Show("quick", 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, ok := b.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}
