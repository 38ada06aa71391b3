// Package discord implements the Discord channel module. It maintains a
// gateway websocket session (identify, heartbeat, resume, reconnect with
// exponential backoff) and converts MESSAGE_CREATE dispatches into inbound
// messages for the monitor. Outbound actions go through the Discord REST
// API: replies (threaded via message references), typing indicators, and
// emoji reactions.
//
// The module also registers and serves the slash-command surface (/scout,
// /ping, /kickoff, /monitoring, /connection), which talks to the completion
// provider directly and bypasses the trigger pipeline.
package discord
