package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/shaiso/Prelude/internal/dsn"
)

func TestPolicy_DelayFor_Fixed(t *testing.T) {
	p := Policy{Interval: 100 * time.Millisecond}

	for attempt := 1; attempt <= 5; attempt++ {
		if d := p.DelayFor(attempt); d != 100*time.Millisecond {
			t.Errorf("attempt %d: expected 100ms, got %v", attempt, d)
		}
	}
}

func TestPolicy_DelayFor_Exponential(t *testing.T) {
	p := Policy{
		Interval: 100 * time.Millisecond,
		Backoff:  BackoffExponential,
		MaxDelay: time.Second,
	}

	expected := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second, // упёрлись в MaxDelay
		time.Second,
	}
	for i, want := range expected {
		if got := p.DelayFor(i + 1); got != want {
			t.Errorf("attempt %d: expected %v, got %v", i+1, want, got)
		}
	}
}

func TestPolicy_DelayFor_Defaults(t *testing.T) {
	var p Policy
	if d := p.DelayFor(1); d != DefaultInterval {
		t.Errorf("expected default interval %v, got %v", DefaultInterval, d)
	}

	// Неизвестная стратегия трактуется как fixed.
	p = Policy{Interval: 50 * time.Millisecond, Backoff: "jitter"}
	if d := p.DelayFor(3); d != 50*time.Millisecond {
		t.Errorf("expected 50ms for unknown backoff, got %v", d)
	}
}

func TestProber_SucceedsAfterRetries(t *testing.T) {
	attempts := 0
	p := New("test", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}, Policy{Interval: time.Millisecond}, nil)

	n, err := p.Wait(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 || n != 3 {
		t.Errorf("expected 3 attempts, got %d (reported %d)", attempts, n)
	}
}

func TestProber_MaxAttemptsExhausted(t *testing.T) {
	attempts := 0
	p := New("test", func(ctx context.Context) error {
		attempts++
		return errors.New("refused")
	}, Policy{Interval: time.Millisecond, MaxAttempts: 4}, nil)

	n, err := p.Wait(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if attempts != 4 || n != 4 {
		t.Errorf("expected exactly 4 attempts, got %d (reported %d)", attempts, n)
	}
}

func TestProber_Deadline(t *testing.T) {
	p := New("test", func(ctx context.Context) error {
		return errors.New("refused")
	}, Policy{Interval: 5 * time.Millisecond, Deadline: 30 * time.Millisecond}, nil)

	start := time.Now()
	_, err := p.Wait(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("deadline not honored, waited %v", elapsed)
	}
}

func TestProber_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := New("test", func(ctx context.Context) error {
		return errors.New("refused")
	}, Policy{Interval: time.Minute}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := p.Wait(ctx)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrAborted) {
			t.Errorf("expected ErrAborted, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}

func TestNewTCP_RealListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	ep := dsn.Endpoint{Host: "127.0.0.1", Port: addr.Port}

	p := NewTCP(ep, Policy{Interval: time.Millisecond, MaxAttempts: 5}, nil)
	if _, err := p.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewTCP_NobodyListening(t *testing.T) {
	// Занимаем порт и сразу закрываем: до конца теста он свободен.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	ep := dsn.Endpoint{Host: "127.0.0.1", Port: addr.Port}
	p := NewTCP(ep, Policy{Interval: time.Millisecond, MaxAttempts: 3}, nil)

	_, err = p.Wait(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewTCP_BecomesReachable(t *testing.T) {
	// Сценарий из жизни: БД поднимается на 3-й попытке.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	started := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		ln2, err := net.Listen("tcp", addr.String())
		if err != nil {
			return
		}
		close(started)
		conn, err := ln2.Accept()
		if err == nil {
			conn.Close()
		}
		ln2.Close()
	}()

	ep := dsn.Endpoint{Host: "127.0.0.1", Port: addr.Port}
	p := NewTCP(ep, Policy{Interval: 5 * time.Millisecond, MaxAttempts: 100}, nil)

	if _, err := p.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-started
}
