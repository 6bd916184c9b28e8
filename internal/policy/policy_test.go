package policy

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func TestServer_ServesPolicyFile(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewServer("", 0).Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), 5*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	data, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("reading policy file: %v", err)
	}

	body := string(data)
	if !strings.HasPrefix(body, `<?xml version="1.0"?>`) {
		t.Errorf("unexpected policy prefix: %q", body[:min(len(body), 30)])
	}
	if !strings.Contains(body, `<allow-access-from domain="*" to-ports="*" />`) {
		t.Error("policy must allow all domains and ports")
	}
	if body[len(body)-1] != 0 {
		t.Error("policy file must be NUL-terminated")
	}
}

func TestServer_ServesEveryConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewServer("", 0).Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	for range 3 {
		conn, err := net.DialTimeout("tcp", ln.Addr().String(), 5*time.Second)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		data, err := io.ReadAll(conn)
		conn.Close()
		if err != nil || len(data) == 0 {
			t.Fatalf("expected policy file, got %d bytes (err %v)", len(data), err)
		}
	}
}
