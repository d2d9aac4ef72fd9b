package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// envelopeRecorder collects envelopes delivered by the read loop.
type envelopeRecorder struct {
	mu        sync.Mutex
	envelopes []Envelope
}

func (r *envelopeRecorder) handle(env Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envelopes = append(r.envelopes, env)
}

func (r *envelopeRecorder) all() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Envelope(nil), r.envelopes...)
}

func TestEndpoint_SchemeAndPath(t *testing.T) {
	assert := assert.New(t)

	cm := NewConnectionManager("http://localhost:8000", "abcd1234", zerolog.Nop())
	addr, err := cm.Endpoint("g1")
	assert.NoError(err)
	assert.Equal("ws://localhost:8000/ws/g1/abcd1234", addr)

	cm = NewConnectionManager("https://game.example.com", "abcd1234", zerolog.Nop())
	addr, err = cm.Endpoint(NoGameID)
	assert.NoError(err)
	assert.Equal("wss://game.example.com/ws/nogame/abcd1234", addr)
}

func TestEndpoint_RejectsUnknownScheme(t *testing.T) {
	cm := NewConnectionManager("ftp://example.com", "abcd1234", zerolog.Nop())
	_, err := cm.Endpoint("g1")
	assert.Error(t, err)
}

func TestOpen_DeliversInboundEnvelopes(t *testing.T) {
	assert := assert.New(t)
	srv := newStubServer(t)

	rec := &envelopeRecorder{}
	cm := NewConnectionManager(srv.config().ServerURL, "abcd1234", zerolog.Nop())
	cm.SetHandler(rec.handle)
	defer cm.Close()

	err := cm.Open(context.Background(), "g1")
	assert.NoError(err)
	assert.Equal("/ws/g1/abcd1234", srv.nextPath())

	srv.push(map[string]any{"type": "navigate", "route": "/lobby/g1"})

	assert.Eventually(func() bool {
		return len(rec.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(Navigate{Route: "/lobby/g1"}, rec.all()[0])
}

func TestOpen_FailsWhenServerUnreachable(t *testing.T) {
	srv := newStubServer(t)
	cfg := srv.config()
	srv.srv.Close() // nothing is listening anymore

	cm := NewConnectionManager(cfg.ServerURL, "abcd1234", zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := cm.Open(ctx, "g1")
	assert.Error(t, err)
}

func TestSend_BeforeOpenIsSilentNoOp(t *testing.T) {
	srv := newStubServer(t)

	cm := NewConnectionManager(srv.config().ServerURL, "abcd1234", zerolog.Nop())
	cm.Send(Intent{Action: ActionStartGame, GameID: "g1"})

	srv.assertNoTraffic()
}

func TestSend_AfterCloseIsSilentNoOp(t *testing.T) {
	assert := assert.New(t)
	srv := newStubServer(t)

	cm := NewConnectionManager(srv.config().ServerURL, "abcd1234", zerolog.Nop())
	assert.NoError(cm.Open(context.Background(), "g1"))
	srv.nextPath()

	cm.Close()
	cm.Send(Intent{Action: ActionStartGame, GameID: "g1"})

	select {
	case data := <-srv.frames:
		t.Fatalf("unexpected frame after close: %q", data)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestReadLoop_DropsMalformedFrames(t *testing.T) {
	assert := assert.New(t)
	srv := newStubServer(t)

	rec := &envelopeRecorder{}
	cm := NewConnectionManager(srv.config().ServerURL, "abcd1234", zerolog.Nop())
	cm.SetHandler(rec.handle)
	defer cm.Close()

	assert.NoError(cm.Open(context.Background(), "g1"))
	srv.nextPath()

	srv.pushRaw([]byte("{not json"))
	srv.pushRaw([]byte(`"just a string"`))
	srv.pushRaw([]byte(`{"type":"something_else"}`))
	srv.push(map[string]any{"type": "error", "message": "boom"})

	// Only the valid error envelope makes it through.
	assert.Eventually(func() bool {
		return len(rec.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(ServerError{Message: "boom"}, rec.all()[0])
}
