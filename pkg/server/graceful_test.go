package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"
)

func startTestServer(t *testing.T, reload ReloadFunc) (*GracefulServer, string, context.CancelFunc, <-chan error) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})}
	gs := NewGracefulServer(srv, time.Second, nil)
	gs.SetReloadFunc(reload)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- gs.Serve(ctx, l)
	}()

	return gs, "http://" + l.Addr().String(), cancel, done
}

func TestGracefulServer_ServeAndShutdown(t *testing.T) {
	gs, url, cancel, done := startTestServer(t, nil)

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("Expected body 'ok', got %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, expected nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	if !gs.IsShuttingDown() {
		t.Error("Server should report shutting down")
	}
	select {
	case <-gs.ShutdownChannel():
	default:
		t.Error("Shutdown channel should be closed")
	}

	// A second shutdown is a no-op
	if err := gs.Shutdown(); err != nil {
		t.Errorf("Second Shutdown() error = %v", err)
	}
}

func TestGracefulServer_SIGHUPReloads(t *testing.T) {
	reloaded := make(chan struct{}, 1)
	gs, _, cancel, done := startTestServer(t, func(ctx context.Context) error {
		reloaded <- struct{}{}
		return nil
	})
	defer func() {
		cancel()
		<-done
	}()

	// Give Serve time to register the signal handler
	time.Sleep(100 * time.Millisecond)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("Failed to send SIGHUP: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("Reload function was not called")
	}

	if gs.IsShuttingDown() {
		t.Error("Server should not be shutting down after SIGHUP")
	}
}

func TestGracefulServer_Reload(t *testing.T) {
	gs := NewGracefulServer(&http.Server{}, 0, nil)

	// No reload function configured
	if err := gs.Reload(context.Background()); err != nil {
		t.Errorf("Reload() without function error = %v", err)
	}

	called := false
	gs.SetReloadFunc(func(ctx context.Context) error {
		called = true
		return nil
	})
	if err := gs.Reload(context.Background()); err != nil {
		t.Errorf("Reload() error = %v", err)
	}
	if !called {
		t.Error("Reload function was not called")
	}

	boom := errors.New("inputs unavailable")
	gs.SetReloadFunc(func(ctx context.Context) error { return boom })
	if err := gs.Reload(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Reload() error = %v, expected %v", err, boom)
	}
}

func TestGracefulServer_ListenError(t *testing.T) {
	gs := NewGracefulServer(&http.Server{Addr: "256.0.0.1:bad"}, time.Second, nil)
	if err := gs.ListenAndServe(context.Background()); err == nil {
		t.Error("Expected listen error for invalid address")
	}
}
