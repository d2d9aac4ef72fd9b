package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// stubServer plays the game server's role in tests: it accepts websocket
// connections on any /ws/... path, records the requested path, captures
// every intent the client sends, and can push arbitrary frames back.
type stubServer struct {
	t   *testing.T
	srv *httptest.Server

	paths  chan string
	frames chan []byte

	mu   sync.Mutex
	conn *websocket.Conn
}

func newStubServer(t *testing.T) *stubServer {
	s := &stubServer{
		t:      t,
		paths:  make(chan string, 8),
		frames: make(chan []byte, 32),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *stubServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	s.paths <- r.URL.Path

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	for {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			return
		}
		s.frames <- data
	}
}

// config returns a client Config pointing at this server.
func (s *stubServer) config() Config {
	return Config{ServerURL: s.srv.URL}
}

// push writes one frame to the most recently accepted connection.
func (s *stubServer) push(v any) {
	s.t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		s.t.Fatalf("failed to marshal push frame: %v", err)
	}
	s.pushRaw(data)
}

func (s *stubServer) pushRaw(data []byte) {
	s.t.Helper()
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		s.t.Fatal("push before any connection was accepted")
	}
	if err := conn.Write(context.Background(), websocket.MessageText, data); err != nil {
		s.t.Fatalf("failed to push frame: %v", err)
	}
}

// nextPath waits for the next accepted connection's request path.
func (s *stubServer) nextPath() string {
	s.t.Helper()
	select {
	case path := <-s.paths:
		return path
	case <-time.After(2 * time.Second):
		s.t.Fatal("timed out waiting for a connection")
		return ""
	}
}

// nextIntent waits for the next intent sent by the client.
func (s *stubServer) nextIntent() Intent {
	s.t.Helper()
	select {
	case data := <-s.frames:
		var intent Intent
		if err := json.Unmarshal(data, &intent); err != nil {
			s.t.Fatalf("client sent invalid intent %q: %v", data, err)
		}
		return intent
	case <-time.After(2 * time.Second):
		s.t.Fatal("timed out waiting for an intent")
		return Intent{}
	}
}

// assertNoTraffic verifies that neither a connection nor a frame arrives
// within the grace window.
func (s *stubServer) assertNoTraffic() {
	s.t.Helper()
	select {
	case path := <-s.paths:
		s.t.Fatalf("unexpected connection to %s", path)
	case data := <-s.frames:
		s.t.Fatalf("unexpected frame %q", data)
	case <-time.After(150 * time.Millisecond):
	}
}
