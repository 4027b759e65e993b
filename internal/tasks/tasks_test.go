package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder_app_echo/internal/models"
	"pagebuilder_app_echo/internal/pagedata"
)

type fakeRefresher struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	calls    atomic.Int32
	pages    map[string]*models.PageDescriptor
	failing  map[string]error
}

func (f *fakeRefresher) Refresh(ctx context.Context, path string, opts pagedata.FetchOptions) (*models.PageDescriptor, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err := f.failing[path]; err != nil {
		return nil, err
	}
	return f.pages[path], nil
}

func TestWarmTaskRun(t *testing.T) {
	refresher := &fakeRefresher{
		pages: map[string]*models.PageDescriptor{
			"/":     {Path: "/"},
			"about": {Path: "about"},
			"/a/b":  {Path: "/a/b"},
		},
		failing: map[string]error{"/broken": errors.New("cms down")},
	}
	task := NewWarmTask(refresher, []string{"/", "about", "/a/b", "/gone", "/broken"}, 2)

	result := task.Run(context.Background())

	assert.ElementsMatch(t, []string{"/", "about", "/a/b"}, result.Warmed)
	assert.Equal(t, []string{"/gone"}, result.Absent)
	require.Len(t, result.Failed, 1)
	assert.EqualError(t, result.Failed["/broken"], "cms down")
	assert.Equal(t, int32(5), refresher.calls.Load())
	assert.LessOrEqual(t, refresher.maxSeen, 2)
}

func TestNewWarmTaskClampsConcurrency(t *testing.T) {
	task := NewWarmTask(&fakeRefresher{}, nil, 0)
	assert.Equal(t, 1, task.concurrency)
}

func TestScheduleNext(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rule     string
		after    time.Time
		expected time.Time
	}{
		{
			name:     "every five minutes",
			rule:     "FREQ=MINUTELY;INTERVAL=5",
			after:    start.Add(7 * time.Minute),
			expected: start.Add(10 * time.Minute),
		},
		{
			name:     "exact occurrence is skipped",
			rule:     "FREQ=MINUTELY;INTERVAL=5",
			after:    start.Add(5 * time.Minute),
			expected: start.Add(10 * time.Minute),
		},
		{
			name:     "exhausted",
			rule:     "FREQ=HOURLY;COUNT=2",
			after:    start.Add(2 * time.Hour),
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := ParseSchedule(tt.rule, start)
			if err != nil {
				t.Fatalf("ParseSchedule(%q) error: %v", tt.rule, err)
			}
			if got := schedule.Next(tt.after); !got.Equal(tt.expected) {
				t.Errorf("Next(%v) = %v; want %v", tt.after, got, tt.expected)
			}
		})
	}
}

func TestParseScheduleRejectsGarbage(t *testing.T) {
	_, err := ParseSchedule("EVERY=SOMETIMES", time.Now())
	assert.Error(t, err)
}

func TestRunOnScheduleStopsOnCancel(t *testing.T) {
	refresher := &fakeRefresher{pages: map[string]*models.PageDescriptor{"/": {Path: "/"}}}
	schedule, err := ParseSchedule("FREQ=HOURLY", time.Now())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunOnSchedule(ctx, schedule, NewWarmTask(refresher, []string{"/"}, 1))
		close(done)
	}()

	require.Eventually(t, func() bool { return refresher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunOnSchedule did not return after cancel")
	}
}
