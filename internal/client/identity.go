package client

import "github.com/google/uuid"

// NewPlayerID generates the session's player identifier: the first eight
// characters of a UUID. The server accepts it as-is; collisions are not
// detected on either side. One is generated per Session and never changes
// for the lifetime of the process.
func NewPlayerID() string {
	return uuid.New().String()[:8]
}
