// Package websocket provides the live visit feed over WebSocket.
package websocket
