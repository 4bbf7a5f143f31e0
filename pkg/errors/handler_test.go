package errors

import (
	"fmt"
	"testing"
	"time"
)

func TestIncrementError(t *testing.T) {
	h := newHandler("", nil, 15, time.Hour, time.Hour)

	for i := 0; i < 3; i++ {
		h.IncrementError()
	}
	if got := h.Count(); got != 3 {
		t.Errorf("Count() = %v, want %v", got, 3)
	}
	if h.overLimit() {
		t.Error("overLimit() = true with 3 errors, want false")
	}
}

func TestShutdownOverLimit(t *testing.T) {
	shutdown := make(chan struct{}, 1)
	exitCode := make(chan int, 1)

	h := newHandler("", func() { shutdown <- struct{}{} }, 2, time.Hour, 10*time.Millisecond)
	h.exitFunc = func(code int) { exitCode <- code }
	h.start()
	defer h.Stop()

	for i := 0; i < 3; i++ {
		h.IncrementError()
	}

	select {
	case <-shutdown:
	case <-time.After(time.Second):
		t.Fatal("shutdownFunc was not called")
	}
	if code := <-exitCode; code != 1 {
		t.Errorf("exit code = %v, want %v", code, 1)
	}
}

func TestResetWindow(t *testing.T) {
	h := newHandler("", nil, 15, 10*time.Millisecond, time.Hour)
	h.start()
	defer h.Stop()

	h.IncrementError()
	time.Sleep(50 * time.Millisecond)

	if got := h.Count(); got != 0 {
		t.Errorf("Count() after reset = %v, want %v", got, 0)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	handler = newHandler("", nil, 15, time.Hour, time.Hour)
	defer func() { handler = nil }()

	func() {
		defer RecoverMiddleware()()
		panic("boom")
	}()

	if got := handler.Count(); got != 1 {
		t.Errorf("Count() after panic = %v, want %v", got, 1)
	}
}

func TestCapture(t *testing.T) {
	handler = newHandler("", nil, 15, time.Hour, time.Hour)
	defer func() { handler = nil }()

	Capture(nil, "Test")
	Capture(fmt.Errorf("role add: %w", fmt.Errorf("forbidden")), "Test")

	if got := handler.Count(); got != 1 {
		t.Errorf("Count() = %v, want %v", got, 1)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := newHandler("", nil, 15, time.Hour, time.Hour)
	h.start()
	h.Stop()
	h.Stop()
}
