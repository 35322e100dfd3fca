package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mogaika/keymotion/webutils"
)

const (
	playWriteTimeout = 10 * time.Second
	playPingPeriod   = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// HandlerWsMotionPlay streams sampled poses with motion playback speed
func HandlerWsMotionPlay(w http.ResponseWriter, r *http.Request) {
	_, m, ok := getMotion(w, r)
	if !ok {
		return
	}
	opts, err := parsePlayOptions(r)
	if err != nil {
		webutils.WriteBadRequest(w, err)
		return
	}
	if opts.rate == 0 {
		opts.rate = m.SampleRate
	}
	if opts.rate <= 0 {
		opts.rate = 30
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		requestLogger(r).Warnf("[web] ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	_l := requestLogger(r)

	// reader only handles control frames and detects disconnect
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ps := newPoseSampler(m, opts)
	step := 1 / opts.rate
	frameTicker := time.NewTicker(time.Duration(float64(time.Second) / float64(opts.rate)))
	defer frameTicker.Stop()
	pingTicker := time.NewTicker(playPingPeriod)
	defer pingTicker.Stop()

	var t float32
	for {
		select {
		case <-closed:
			return
		case <-frameTicker.C:
			data, err := json.Marshal(ps.sample(t))
			if err != nil {
				_l.Errorf("[web] pose marshal: %v", err)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(playWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				_l.Debugf("[web] ws write frame: %v", err)
				return
			}

			if t >= m.Duration {
				if !opts.loop {
					conn.SetWriteDeadline(time.Now().Add(playWriteTimeout))
					conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "end of motion"))
					return
				}
				t = 0
			} else if t += step; t > m.Duration {
				t = m.Duration
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(playWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_l.Debugf("[web] ws write ping: %v", err)
				return
			}
		}
	}
}
