package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPlayerID_Shape(t *testing.T) {
	assert := assert.New(t)

	id := NewPlayerID()
	assert.Len(id, 8)
	for _, ch := range id {
		assert.True((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f'),
			"unexpected character %q in player id %q", ch, id)
	}
}

func TestNewPlayerID_VariesBetweenSessions(t *testing.T) {
	assert.NotEqual(t, NewPlayerID(), NewPlayerID())
}

// The identifier is fixed at session construction and survives every
// operation on the session.
func TestSession_PlayerIDIsStable(t *testing.T) {
	srv := newStubServer(t)
	session, _ := newTestSession(t, srv)

	id := session.PlayerID()
	session.SetNickname("Ann")
	session.LeaveGame()

	assert.Equal(t, id, session.PlayerID())
}
