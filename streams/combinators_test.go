package streams

import (
	"context"
	"testing"
	"time"
)

func collect[T any](t *testing.T, ch <-chan T, n int, timeout time.Duration) []T {
	t.Helper()
	got := make([]T, 0, n)
	deadline := time.After(timeout)
	for len(got) < n {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed after %d of %d expected values", len(got), n)
			}
			got = append(got, v)
		case <-deadline:
			t.Fatalf("timed out after %d of %d expected values", len(got), n)
		}
	}
	return got
}

func sliceSource[T any](values ...T) Stream[T] {
	return FuncStream[T](func(ctx context.Context) <-chan T {
		out := make(chan T)
		go func() {
			defer close(out)
			for _, v := range values {
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	})
}

func TestMap(t *testing.T) {
	src := sliceSource(1, 2, 3)
	mapped := Map(src, func(v int) string {
		if v == 1 {
			return "one"
		}
		return "other"
	})
	ch := mapped.Subscribe(context.Background())
	got := collect(t, ch, 3, time.Second)
	want := []string{"one", "other", "other"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilter(t *testing.T) {
	src := sliceSource(1, 2, 3, 4)
	filtered := Filter(src, func(v int) bool { return v%2 == 0 })
	ch := filtered.Subscribe(context.Background())
	got := collect(t, ch, 2, time.Second)
	if got[0] != 2 || got[1] != 4 {
		t.Errorf("got = %v, want [2 4]", got)
	}
}

func TestDistinct(t *testing.T) {
	src := sliceSource(1, 1, 2, 2, 2, 3)
	distinct := Distinct(src)
	ch := distinct.Subscribe(context.Background())
	got := collect(t, ch, 3, time.Second)
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMerge(t *testing.T) {
	a := sliceSource(1, 2)
	b := sliceSource(3, 4)
	merged := Merge[int](a, b)
	ch := merged.Subscribe(context.Background())
	got := collect(t, ch, 4, time.Second)
	sum := 0
	for _, v := range got {
		sum += v
	}
	if sum != 10 {
		t.Errorf("sum = %d, want 10", sum)
	}
}

func TestTakeWhile(t *testing.T) {
	src := sliceSource(1, 2, 3, 4, 1)
	taken := TakeWhile(src, func(v int) bool { return v < 3 })
	ch := taken.Subscribe(context.Background())
	got := collect(t, ch, 2, time.Second)
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("got = %v, want [1 2]", got)
	}

	select {
	case v, ok := <-ch:
		if ok {
			t.Errorf("expected channel closed, got %v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for TakeWhile to close")
	}
}

func TestThrottle(t *testing.T) {
	src := FuncStream[int](func(ctx context.Context) <-chan int {
		out := make(chan int)
		go func() {
			defer close(out)
			out <- 1
			time.Sleep(5 * time.Millisecond)
			out <- 2 // within the throttle window, dropped
			time.Sleep(50 * time.Millisecond)
			out <- 3 // past the window, passes
		}()
		return out
	})

	throttled := Throttle(src, 20*time.Millisecond)
	ch := throttled.Subscribe(context.Background())
	got := collect(t, ch, 2, time.Second)
	if got[0] != 1 || got[1] != 3 {
		t.Errorf("got = %v, want [1 3]", got)
	}
}

func TestShareReplay_ReplaysLatestToNewSubscribers(t *testing.T) {
	src := FuncStream[int](func(ctx context.Context) <-chan int {
		out := make(chan int)
		go func() {
			defer close(out)
			out <- 1
			out <- 2
			<-ctx.Done()
		}()
		return out
	})

	sr := NewShareReplay[int](src)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := sr.Subscribe(ctx)
	collect(t, first, 2, time.Second)

	time.Sleep(20 * time.Millisecond) // let run() update hasLast

	second := sr.Subscribe(ctx)
	got := collect(t, second, 1, time.Second)
	if got[0] != 2 {
		t.Errorf("replayed value = %d, want 2", got[0])
	}
}

func TestShareReplay_ClosesSubscribersWhenUpstreamCompletes(t *testing.T) {
	src := sliceSource(1)
	sr := NewShareReplay[int](src)
	ctx := context.Background()

	ch := sr.Subscribe(ctx)
	collect(t, ch, 1, time.Second)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("channel still open after upstream completed")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for completion close")
	}
}
