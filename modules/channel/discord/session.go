package discord

import (
	"sync"
	"time"
)

// sessionState tracks gateway session identity across reconnects so the
// module can resume instead of re-identifying.
type sessionState struct {
	mu        sync.Mutex
	sessionID string
	resumeURL string
	lastSeq   int64
	acked     bool
}

// established records a fresh session from a READY dispatch.
func (s *sessionState) established(sessionID, resumeURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = sessionID
	s.resumeURL = resumeURL
	s.acked = true
}

// reset clears the session so the next connection re-identifies.
func (s *sessionState) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = ""
	s.resumeURL = ""
	s.lastSeq = 0
}

// resumable returns the session identity when a resume is possible.
func (s *sessionState) resumable() (sessionID string, seq int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID, s.lastSeq, s.sessionID != ""
}

// resumeTarget returns the gateway URL to dial when resuming, or "".
func (s *sessionState) resumeTarget() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID == "" {
		return ""
	}
	return s.resumeURL
}

// setSeq records the last seen dispatch sequence number.
func (s *sessionState) setSeq(seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeq = seq
}

// seq returns the last seen dispatch sequence number.
func (s *sessionState) seq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeq
}

// markAck records a heartbeat ack. Also called when a connection is
// established to prime the first interval.
func (s *sessionState) markAck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = true
}

// ackReceived consumes the ack flag for the current heartbeat interval.
func (s *sessionState) ackReceived() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	acked := s.acked
	s.acked = false
	return acked
}

// connState tracks connection health for the /connection command and logs.
type connState struct {
	mu           sync.Mutex
	connected    bool
	connectedAt  time.Time
	attempts     int
	reconnecting bool
	now          func() time.Time
}

func newConnState() *connState {
	return &connState{now: time.Now}
}

// setConnected flips the connection flag. Going up resets the reconnect
// attempt counter; going down marks the supervisor as reconnecting.
func (c *connState) setConnected(up bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if up && !c.connected {
		c.connectedAt = c.now()
		c.attempts = 0
		c.reconnecting = false
	}
	if !up && c.connected {
		c.reconnecting = true
	}
	c.connected = up
}

// nextAttempt increments and returns the reconnect attempt counter.
func (c *connState) nextAttempt() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconnecting = true
	c.attempts++
	return c.attempts
}

// ConnectionStatus is a snapshot of gateway connection health.
type ConnectionStatus struct {
	Connected    bool          `json:"connected"`
	Uptime       time.Duration `json:"uptime"`
	Attempts     int           `json:"reconnect_attempts"`
	Reconnecting bool          `json:"reconnecting"`
}

// status returns a snapshot of the connection state.
func (c *connState) status() ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := ConnectionStatus{
		Connected:    c.connected,
		Attempts:     c.attempts,
		Reconnecting: c.reconnecting,
	}
	if c.connected {
		st.Uptime = c.now().Sub(c.connectedAt)
	}
	return st
}
