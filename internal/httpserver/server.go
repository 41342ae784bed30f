package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Server is an http.Server whose request contexts are cancelled when
// Shutdown starts, so open event streams return instead of holding it up.
type Server struct {
	*http.Server
	cancel context.CancelFunc
}

func NewServer(addr string, h http.Handler) *Server {
	base, cancel := context.WithCancel(context.Background())
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return base },
		},
		cancel: cancel,
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.Server.Shutdown(ctx)
}
