// Package api exposes the coordinator over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/model"
)

// Server is the HTTP front end of the coordinator.
type Server struct {
	coord  *coordinator.Coordinator
	logger *zap.Logger
	tokens map[string]string
	echo   *echo.Echo
}

// New creates a server. Only requests bearing one of the principals'
// tokens reach the protected routes.
func New(coord *coordinator.Coordinator, principals []model.Principal, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		coord:  coord,
		logger: logger,
		tokens: make(map[string]string, len(principals)),
	}
	for _, p := range principals {
		s.tokens[p.Token] = p.UserID
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(s.requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", s.handleHealth)

	api := e.Group("/api/v1")
	api.Use(s.authMiddleware)

	api.POST("/clients", s.handleCreateClient)
	api.GET("/clients", s.handleListClients)
	api.GET("/clients/:id", s.handleGetClient)
	api.PATCH("/clients/:id", s.handleUpdateClient)
	api.DELETE("/clients/:id", s.handleDeleteClient)

	api.GET("/clients/:id/profitability", s.handleGetProfitability)
	api.PATCH("/clients/:id/profitability", s.handleUpdateProfitability)
	api.POST("/clients/:id/profitability/sync", s.handleSyncHours)
	api.GET("/clients/:id/impact", s.handleClientImpact)
	api.GET("/profitability", s.handleListProfitability)

	api.POST("/tasks", s.handleCreateTask)
	api.GET("/tasks", s.handleListTasks)
	api.GET("/tasks/:id", s.handleGetTask)
	api.PATCH("/tasks/:id", s.handleUpdateTask)
	api.DELETE("/tasks/:id", s.handleDeleteTask)
	api.PUT("/tasks/:id/impact-score", s.handleSetImpactScore)
	api.POST("/impact/classify", s.handleClassify)

	api.POST("/timers", s.handleStartTimer)
	api.GET("/timers", s.handleListTimers)
	api.GET("/timers/active", s.handleActiveTimer)
	api.POST("/timers/stop", s.handleStopTimer)
	api.POST("/timers/:id/stop", s.handleStopTimer)

	api.POST("/objectives", s.handleCreateObjective)
	api.GET("/objectives", s.handleListObjectives)
	api.PATCH("/objectives/:id", s.handleUpdateObjective)
	api.DELETE("/objectives/:id", s.handleDeleteObjective)

	s.echo = e
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("api listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// fail writes err with the status that matches its kind.
func (s *Server) fail(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
	}
	return c.JSON(status, errorBody{Error: err.Error(), Kind: kind.String()})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
