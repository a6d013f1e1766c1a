package websocket

import (
	"fmt"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type client struct {
	id   string
	conn *ws.Conn

	mu     sync.Mutex
	closed bool
}

func (that *client) write(data []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return ErrClientClosed
	}

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteMessage(ws.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) ping() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return ErrClientClosed
	}

	return that.conn.WriteControl(ws.PingMessage, nil, time.Now().Add(writeWait))
}

func (that *client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}
	that.closed = true

	_ = that.conn.WriteControl(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(writeWait))
	_ = that.conn.Close()
}
