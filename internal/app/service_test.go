package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recordingService struct {
	name     string
	startErr error
	mu       *sync.Mutex
	stops    *[]string
}

func (s *recordingService) Name() string { return s.name }

func (s *recordingService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *recordingService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.stops = append(*s.stops, s.name)
	return nil
}

func TestRunnerStopsInReverseOrderOnCancel(t *testing.T) {
	var mu sync.Mutex
	var stops []string
	runner := NewRunner(
		&recordingService{name: "http", mu: &mu, stops: &stops},
		nil,
		&recordingService{name: "session_sweep", mu: &mu, stops: &stops},
	)
	if got := runner.Services(); len(got) != 2 {
		t.Fatalf("nil services should be dropped, got %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	if err := runner.Run(ctx, time.Second, zap.NewNop().Sugar()); err != nil {
		t.Fatalf("cancel should end cleanly, got %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(stops) != 2 || stops[0] != "session_sweep" || stops[1] != "http" {
		t.Fatalf("stop order = %v", stops)
	}
}

func TestRunnerReturnsServiceFailure(t *testing.T) {
	var mu sync.Mutex
	var stops []string
	boom := errors.New("address in use")
	runner := NewRunner(
		&recordingService{name: "http", startErr: boom, mu: &mu, stops: &stops},
		&recordingService{name: "session_sweep", mu: &mu, stops: &stops},
	)
	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped start error, got %v", err)
	}
}

func TestHTTPServiceServeAndStop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	svc := NewHTTPService(ln.Addr().String(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status want 204 got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("serve should return nil after shutdown, got %v", err)
	}
}

func TestBuildRunnerRequiresConfig(t *testing.T) {
	if _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
