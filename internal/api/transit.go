package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const transitWriteTimeout = 10 * time.Second

// transits upgrades to a websocket and pushes the current sky every interval
// until the client disconnects.
func (h *handler) transits(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.TransitSubscribed(1)
	defer h.metrics.TransitSubscribed(-1)

	// Reads detect client close; incoming messages are ignored.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.pushSky(conn); err != nil {
			h.logger.Debug("transit stream ended", zap.Error(err))
			return
		}

		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *handler) pushSky(conn *websocket.Conn) error {
	sky, err := h.svc.Sky(h.now())
	if err != nil {
		h.logger.Error("sky computation failed", zap.Error(err))
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "sky computation failed")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(transitWriteTimeout))
		return err
	}

	if err := conn.SetWriteDeadline(time.Now().Add(transitWriteTimeout)); err != nil {
		return err
	}
	if err := conn.WriteJSON(sky); err != nil {
		return err
	}
	h.metrics.RecordTransitFrame()
	return nil
}
