package lib

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadSafeWebSocket(t *testing.T) {
	upgrader := websocket.Upgrader{}
	echoed := make(chan map[string]string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws := NewThreadSafeWebSocket(c)
		defer ws.Close()
		var msg map[string]string
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}
		echoed <- msg
		_ = ws.WriteJSON(msg)
	}))
	defer ts.Close()

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	ws := NewThreadSafeWebSocket(c)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, ws.WriteJSON(map[string]string{"type": "click", "id": "a"}))
	}()
	wg.Wait()

	var reply map[string]string
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Equal(t, map[string]string{"type": "click", "id": "a"}, reply)
	assert.Equal(t, reply, <-echoed)

	assert.NoError(t, ws.Close())
	assert.NoError(t, ws.Close())
}
