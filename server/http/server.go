package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/w-h-a/docchat/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type httpServer struct {
	options server.Options
	handler http.Handler
	srv     *http.Server
	mtx     sync.RWMutex
	errCh   chan error
}

func (s *httpServer) Options() server.Options {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.options
}

func (s *httpServer) Handle(handler any) error {
	h, ok := handler.(http.Handler)
	if !ok {
		return fmt.Errorf("http server requires an http.Handler, got %T", handler)
	}

	if ms, ok := MiddlewareFrom(s.options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			h = ms[i](h)
		}
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.handler = otelhttp.NewHandler(h, s.options.Name)

	return nil
}

func (s *httpServer) Start() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.handler == nil {
		return errors.New("no handler registered")
	}

	listener, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		return err
	}

	s.options.Address = listener.Addr().String()

	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", "error", err)
			s.errCh <- err
		}
		close(s.errCh)
	}()

	slog.Info("http server listening", "address", s.options.Address, "name", s.options.Name, "version", s.options.Version)

	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	s.mtx.RLock()
	srv := s.srv
	timeout := s.options.ShutdownTimeout
	s.mtx.RUnlock()

	if srv == nil {
		return nil
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	return <-s.errCh
}

func NewServer(opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	s := &httpServer{
		options: options,
		mtx:     sync.RWMutex{},
		errCh:   make(chan error, 1),
	}

	return s
}
