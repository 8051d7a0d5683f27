package noncritical

import (
	"errors"
	"testing"
	"time"
)

func TestReportWrapsBothErrors(t *testing.T) {
	recorder := &Recorder{}
	SetReporter(recorder.Record)
	t.Cleanup(func() { SetReporter(nil) })

	cause := errors.New("disk full")
	Report("wishlist_persist", cause, "product_id", 3)
	Report("ignored", nil)

	failures := recorder.Failures()
	if len(failures) != 1 {
		t.Fatalf("want 1 failure got %d", len(failures))
	}
	if !errors.Is(failures[0], ErrNonCritical) || !errors.Is(failures[0], cause) {
		t.Fatalf("failure should match both sentinel and cause: %v", failures[0])
	}
	if failures[0].Operation != "wishlist_persist" {
		t.Fatalf("unexpected operation: %s", failures[0].Operation)
	}
}

func TestGoRecoversPanic(t *testing.T) {
	done := make(chan *Failure, 1)
	SetReporter(func(f *Failure) { done <- f })
	t.Cleanup(func() { SetReporter(nil) })

	Go("push_register", func() error {
		panic("boom")
	})

	select {
	case f := <-done:
		if f.Operation != "push_register" {
			t.Fatalf("unexpected operation: %s", f.Operation)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("panic was not reported")
	}
}
