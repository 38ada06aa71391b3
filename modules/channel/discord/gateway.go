package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// maxGatewayPayload bounds a single gateway frame. READY payloads for busy
// bots run large; the default websocket read limit is far too small.
const maxGatewayPayload = 1 << 22

// errReconnectRequested signals the server asked us to resume on a fresh
// connection (opReconnect or a resumable invalid session).
var errReconnectRequested = errors.New("discord: gateway requested reconnect")

// run is the connection supervisor. It keeps a gateway session alive,
// reconnecting with exponential backoff after failures, and gives up after
// the configured number of consecutive failed attempts.
func (d *Discord) run(ctx context.Context) {
	for {
		err := d.runSession(ctx)
		d.state.setConnected(false)

		if ctx.Err() != nil {
			return
		}

		attempt := d.state.nextAttempt()
		if attempt > d.config.MaxReconnectAttempts {
			d.logger.Error("gateway reconnect attempts exhausted, giving up",
				"attempts", d.config.MaxReconnectAttempts,
				"error", err,
			)
			return
		}

		delay := d.config.ReconnectDelay * (1 << (attempt - 1))
		d.logger.Warn("gateway disconnected, reconnecting",
			"attempt", attempt,
			"max_attempts", d.config.MaxReconnectAttempts,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// runSession dials the gateway, performs the identify/resume handshake,
// and processes events until the connection drops or ctx is cancelled.
func (d *Discord) runSession(ctx context.Context) error {
	dialURL := d.config.GatewayURL
	if resumeURL := d.session.resumeTarget(); resumeURL != "" {
		dialURL = resumeURL
	}

	conn, _, err := websocket.Dial(ctx, dialURL, nil)
	if err != nil {
		return fmt.Errorf("discord: gateway dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	conn.SetReadLimit(maxGatewayPayload)

	var hello gatewayEvent
	if err := wsjson.Read(ctx, conn, &hello); err != nil {
		return fmt.Errorf("discord: read hello: %w", err)
	}
	if hello.Op != opHello {
		return fmt.Errorf("discord: expected hello, got op %d", hello.Op)
	}
	var hd helloData
	if err := json.Unmarshal(hello.D, &hd); err != nil {
		return fmt.Errorf("discord: decode hello: %w", err)
	}

	if err := d.handshake(ctx, conn); err != nil {
		return err
	}
	// Prime the ack flag so the first heartbeat interval does not count
	// as a miss.
	d.session.markAck()

	hbCtx, cancelHB := context.WithCancel(ctx)
	defer cancelHB()
	go d.heartbeatLoop(hbCtx, conn, time.Duration(hd.HeartbeatInterval)*time.Millisecond)

	return d.readLoop(ctx, conn)
}

// handshake sends resume when a previous session can be continued,
// identify otherwise.
func (d *Discord) handshake(ctx context.Context, conn *websocket.Conn) error {
	if sessionID, seq, ok := d.session.resumable(); ok {
		d.logger.Info("resuming gateway session", "session_id", sessionID)
		return wsjson.Write(ctx, conn, gatewayCommand{
			Op: opResume,
			D: resumeData{
				Token:     d.config.Token,
				SessionID: sessionID,
				Seq:       seq,
			},
		})
	}

	return wsjson.Write(ctx, conn, gatewayCommand{
		Op: opIdentify,
		D: identifyData{
			Token:   d.config.Token,
			Intents: botIntents,
			Properties: identifyProperties{
				OS:      "linux",
				Browser: "scout-cfb-bot",
				Device:  "scout-cfb-bot",
			},
		},
	})
}

// heartbeatLoop sends heartbeats at the server-given interval. A missed
// ack means the connection is a zombie; closing it unblocks the read loop
// so the supervisor can reconnect.
func (d *Discord) heartbeatLoop(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !d.session.ackReceived() {
				d.logger.Warn("heartbeat ack missed, closing connection")
				_ = conn.Close(websocket.StatusPolicyViolation, "heartbeat timeout")
				return
			}
			if err := wsjson.Write(ctx, conn, gatewayCommand{Op: opHeartbeat, D: d.session.seq()}); err != nil {
				return
			}
		}
	}
}

// readLoop processes gateway events until the connection fails.
func (d *Discord) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var ev gatewayEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			return fmt.Errorf("discord: gateway read: %w", err)
		}

		switch ev.Op {
		case opDispatch:
			d.session.setSeq(ev.S)
			d.handleDispatch(ctx, ev)

		case opHeartbeat:
			// Server requested an immediate beat.
			if err := wsjson.Write(ctx, conn, gatewayCommand{Op: opHeartbeat, D: d.session.seq()}); err != nil {
				return fmt.Errorf("discord: heartbeat write: %w", err)
			}

		case opHeartbeatACK:
			d.session.markAck()

		case opReconnect:
			return errReconnectRequested

		case opInvalidSession:
			var resumable bool
			_ = json.Unmarshal(ev.D, &resumable)
			if !resumable {
				d.session.reset()
			}
			return errReconnectRequested
		}
	}
}

// handleDispatch routes a dispatch event by type.
func (d *Discord) handleDispatch(ctx context.Context, ev gatewayEvent) {
	switch ev.T {
	case "READY":
		var ready readyData
		if err := json.Unmarshal(ev.D, &ready); err != nil {
			d.logger.Error("decode READY", "error", err)
			return
		}
		d.session.established(ready.SessionID, ready.ResumeGatewayURL)
		d.state.setConnected(true)
		d.logger.Info("gateway session ready",
			"session_id", ready.SessionID,
			"user", ready.User.Username,
		)

	case "RESUMED":
		d.state.setConnected(true)
		d.logger.Info("gateway session resumed")

	case "MESSAGE_CREATE":
		var wire wireMessage
		if err := json.Unmarshal(ev.D, &wire); err != nil {
			d.logger.Error("decode MESSAGE_CREATE", "error", err)
			return
		}
		d.deliver(wire, ev.D)

	case "INTERACTION_CREATE":
		var i interaction
		if err := json.Unmarshal(ev.D, &i); err != nil {
			d.logger.Error("decode INTERACTION_CREATE", "error", err)
			return
		}
		// Command handling blocks on the provider; never stall the read
		// loop behind it.
		go d.handleInteraction(ctx, i)
	}
}

// deliver converts a platform message and pushes it to the monitor inbox.
// The inbox runs the monitor's typing/completion/reply sequence; like
// interactions, it is handed off so the read loop keeps consuming frames
// (and heartbeat ACKs) while a handler is in flight.
func (d *Discord) deliver(wire wireMessage, raw json.RawMessage) {
	msg := toInbound(wire, raw, d.channelName(), d.botUserID())

	if !d.allowList.IsMonitored(msg) {
		d.logger.Debug("message dropped, chat not monitored", "chat", msg.Chat.ID)
		return
	}

	go func() {
		if err := d.inbox(msg); err != nil {
			d.logger.Error("inbox delivery failed", "message_id", msg.ID, "error", err)
		}
	}()
}
