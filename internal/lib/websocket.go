package lib

import (
	"sync"

	"github.com/gorilla/websocket"
)

// ThreadSafeWebSocket wraps a websocket.Conn and allows many readers and writers to
// read/write the conn from goroutines without having to track safe access.
// This comes with the caveat that all writes block eachother, and similarly for reads.
// See https://pkg.go.dev/github.com/gorilla/websocket?utm_source=godoc#hdr-Concurrency.
type ThreadSafeWebSocket struct {
	c       *websocket.Conn
	writeMu *sync.Mutex
	readMu  *sync.Mutex
	closed  *sync.Once
}

func NewThreadSafeWebSocket(c *websocket.Conn) ThreadSafeWebSocket {
	return ThreadSafeWebSocket{c, &sync.Mutex{}, &sync.Mutex{}, &sync.Once{}}
}

func (s ThreadSafeWebSocket) ReadJSON(v interface{}) error {
	s.readMu.Lock()
	defer s.readMu.Unlock()
	return s.c.ReadJSON(v)
}

func (s ThreadSafeWebSocket) WriteJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.c.WriteJSON(v)
}

// Close closes the underlying conn once, later calls are no-ops. It doesn't take the
// read lock so it can unblock a pending read.
func (s ThreadSafeWebSocket) Close() error {
	var err error
	s.closed.Do(func() { err = s.c.Close() })
	return err
}
