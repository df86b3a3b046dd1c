// Package websocket broadcasts upload pipeline events to browser listeners.
//
// A single Hub goroutine owns the client set. Each Client runs a read pump,
// which only services control frames, and a write pump, which forwards hub
// messages and pings the peer. Slow clients whose send buffer fills are
// dropped rather than allowed to stall the pipeline.
package websocket
