package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meshplus/ethbridge/internal/repo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	router  *gin.Engine
	server  *http.Server
	runtime Runtime
	config  *repo.Config
	logger  logrus.FieldLogger
}

var _ GinService = (*Server)(nil)

type response struct {
	Error string `json:"error"`
}

func NewServer(rt Runtime, config *repo.Config, logger logrus.FieldLogger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	s := &Server{
		router:  router,
		runtime: rt,
		config:  config,
		logger:  logger,
	}

	router.Use(gin.Recovery())
	v1 := router.Group("/v1")
	{
		v1.GET("/status", s.status)
		v1.GET("/lightclient/head", s.lightClientHead)
		v1.GET("/assets/:asset/balances/:account", s.balance)
		v1.GET("/channels/:channel/inbound/nonce", s.inboundNonce)
		v1.GET("/channels/:channel/outbound/nonce", s.outboundNonce)
		v1.GET("/channels/:channel/outbound/pending", s.pending)
		v1.GET("/channels/:channel/outbound/batches/:nonce", s.batch)
		v1.GET("/blocks/:number/digest", s.digest)
		if config.Metrics.Enable {
			v1.GET("/metrics", gin.WrapH(promhttp.Handler()))
		}
	}

	return s, nil
}

// Handler exposes the routes without a listener
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port.Http),
		Handler: s.router,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithField("error", err).Error("Serve query api")
		}
	}()

	s.logger.WithField("port", s.config.Port.Http).Info("Query api started")
	return nil
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown query api: %w", err)
	}

	s.logger.Infoln("gin service stop")
	return nil
}

func (s *Server) fail(c *gin.Context, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": err,
		}).Error("Query failed")
	}
	c.JSON(code, response{Error: err.Error()})
}
