package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"funkosrest/internal/apperr"
	"funkosrest/internal/notification"
)

// KeepAlive is how often an idle stream gets a comment line.
var KeepAlive = 30 * time.Second

// StreamFunkoNotifications relays funko change notifications as
// Server-Sent Events until the client goes away.
func StreamFunkoNotifications(broker notification.Broker, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		events, cancel, err := broker.Subscribe(ctx, notification.FunkosChannel)
		if err != nil {
			apperr.WriteHTTP(w, r, lg, apperr.Internal(err))
			return
		}
		defer cancel()

		rc := http.NewResponseController(w)
		_ = rc.SetWriteDeadline(time.Time{})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		if err := rc.Flush(); err != nil {
			lg.Warnw("event stream not flushable", "err", err)
			return
		}

		tick := time.NewTicker(KeepAlive)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case payload, ok := <-events:
				if !ok {
					return
				}
				if _, err := fmt.Fprintf(w, "event: funkos\ndata: %s\n\n", payload); err != nil {
					return
				}
			case <-tick.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
