package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"scoring-api/internal/config"
)

// Server - HTTP сервер API и, при включенных метриках, отдельный сервер /metrics
type Server struct {
	API     *http.Server
	Metrics *http.Server

	apiListener     net.Listener
	metricsListener net.Listener

	shutdownTimeout time.Duration
	log             *zap.Logger
}

// NewServer создает серверы и открывает listener'ы.
// metricsHandler может быть nil, тогда сервер метрик не запускается.
func NewServer(cfg *config.Config, api http.Handler, metricsHandler http.Handler, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiAddr := net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Server.Port))
	apiListener, err := net.Listen("tcp", apiAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", apiAddr, err)
	}

	s := &Server{
		API: &http.Server{
			Handler:           api,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			ErrorLog:          zap.NewStdLog(logger.Named("http")),
		},
		apiListener:     apiListener,
		shutdownTimeout: cfg.Server.GracefulShutdownTimeout,
		log:             logger,
	}

	if metricsHandler != nil && cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsAddr := net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Metrics.Port))
		metricsListener, err := net.Listen("tcp", metricsAddr)
		if err != nil {
			_ = apiListener.Close()
			return nil, fmt.Errorf("failed to listen on %s: %w", metricsAddr, err)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		s.Metrics = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		}
		s.metricsListener = metricsListener
	}

	return s, nil
}

// Addr - фактический адрес API (полезно при порте 0)
func (s *Server) Addr() net.Addr {
	return s.apiListener.Addr()
}

// Start запускает серверы в горутинах
// Возвращает канал ошибок для отслеживания ошибок серверов
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 2)

	go func() {
		s.log.Info("API server listening", zap.String("addr", s.apiListener.Addr().String()))
		if err := s.API.Serve(s.apiListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	if s.Metrics != nil {
		go func() {
			s.log.Info("metrics server listening", zap.String("addr", s.metricsListener.Addr().String()))
			if err := s.Metrics.Serve(s.metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	return errChan
}

// Shutdown выполняет graceful shutdown: ждет активные запросы
// не дольше graceful_shutdown_timeout, затем закрывает соединения
func (s *Server) Shutdown() error {
	s.log.Info("starting graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.API.Shutdown(ctx); err != nil {
		s.log.Warn("graceful shutdown timeout, forcing stop", zap.Error(err))
		errs = append(errs, err, s.API.Close())
	}
	if s.Metrics != nil {
		if err := s.Metrics.Shutdown(ctx); err != nil {
			errs = append(errs, err, s.Metrics.Close())
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.log.Info("servers stopped gracefully")
	return nil
}
