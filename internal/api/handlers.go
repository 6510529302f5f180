package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
)

// bind decodes the request body into dest, reporting malformed input as
// InvalidInput.
func bind(c echo.Context, dest any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dest); err != nil {
		return apperr.Invalid("malformed request body")
	}
	return nil
}

// === Clients ===

func (s *Server) handleCreateClient(c echo.Context) error {
	var in coordinator.ClientInput
	if err := bind(c, &in); err != nil {
		return s.fail(c, err)
	}
	res, err := s.coord.CreateClient(c.Request().Context(), currentUser(c), in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (s *Server) handleListClients(c echo.Context) error {
	clients, err := s.coord.ListClients(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(clients))
}

func (s *Server) handleGetClient(c echo.Context) error {
	client, err := s.coord.GetClient(c.Request().Context(), currentUser(c), model.ClientID(c.Param("id")))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (s *Server) handleUpdateClient(c echo.Context) error {
	var patch coordinator.ClientPatch
	if err := bind(c, &patch); err != nil {
		return s.fail(c, err)
	}
	client, err := s.coord.UpdateClient(c.Request().Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (s *Server) handleDeleteClient(c echo.Context) error {
	res, err := s.coord.DeleteClient(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// === Profitability ===

func (s *Server) handleGetProfitability(c echo.Context) error {
	p, err := s.coord.GetProfitability(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdateProfitability(c echo.Context) error {
	var patch model.ProfitabilityPatch
	if err := bind(c, &patch); err != nil {
		return s.fail(c, err)
	}
	p, err := s.coord.UpdateProfitability(c.Request().Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleSyncHours(c echo.Context) error {
	p, err := s.coord.SyncHoursFromTasks(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleListProfitability(c echo.Context) error {
	records, err := s.coord.ListProfitability(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(records))
}

// === Impact ===

func (s *Server) handleClientImpact(c echo.Context) error {
	stats, err := s.coord.ClientImpact(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleClassify(c echo.Context) error {
	ranking, err := s.coord.ClassifyHighImpact(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ranking)
}

type impactScoreRequest struct {
	Score *int `json:"score"`
}

func (s *Server) handleSetImpactScore(c echo.Context) error {
	var req impactScoreRequest
	if err := bind(c, &req); err != nil {
		return s.fail(c, err)
	}
	if req.Score == nil {
		return s.fail(c, apperr.Invalid("score is required"))
	}
	if err := s.coord.SetImpactScore(c.Request().Context(), currentUser(c), c.Param("id"), *req.Score); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// === Tasks ===

func (s *Server) handleCreateTask(c echo.Context) error {
	var in coordinator.TaskInput
	if err := bind(c, &in); err != nil {
		return s.fail(c, err)
	}
	task, err := s.coord.CreateTask(c.Request().Context(), currentUser(c), in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) handleListTasks(c echo.Context) error {
	filter := store.TaskFilter{
		ClientID: optionalQuery(c, "client_id"),
		Status:   optionalQuery(c, "status"),
		SortBy:   c.QueryParam("sort"),
		SortDesc: c.QueryParam("desc") == "true",
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return s.fail(c, apperr.Invalid("limit must be a non-negative integer"))
		}
		filter.Limit = n
	}

	tasks, err := s.coord.ListTasks(c.Request().Context(), currentUser(c), filter)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(tasks))
}

func (s *Server) handleGetTask(c echo.Context) error {
	expand := c.QueryParam("expand") == "client"
	task, err := s.coord.GetTask(c.Request().Context(), currentUser(c), c.Param("id"), expand)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var patch coordinator.TaskPatch
	if err := bind(c, &patch); err != nil {
		return s.fail(c, err)
	}
	task, err := s.coord.UpdateTask(c.Request().Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.coord.DeleteTask(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// === Timers ===

func (s *Server) handleStartTimer(c echo.Context) error {
	var in coordinator.TimerInput
	if err := bind(c, &in); err != nil {
		return s.fail(c, err)
	}
	timer, err := s.coord.StartTimer(c.Request().Context(), currentUser(c), in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, timer)
}

func (s *Server) handleStopTimer(c echo.Context) error {
	res, err := s.coord.StopTimer(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleActiveTimer(c echo.Context) error {
	timer, err := s.coord.ActiveTimer(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, timer)
}

func (s *Server) handleListTimers(c echo.Context) error {
	filter := store.TimerFilter{
		ClientID: optionalQuery(c, "client_id"),
		TaskID:   optionalQuery(c, "task_id"),
	}
	if v := c.QueryParam("billable"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s.fail(c, apperr.Invalid("billable must be true or false"))
		}
		filter.Billable = &b
	}
	if v := c.QueryParam("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return s.fail(c, apperr.Invalid("since must be an RFC 3339 timestamp"))
		}
		filter.Since = &t
	}

	sum, err := s.coord.ListTimers(c.Request().Context(), currentUser(c), filter)
	if err != nil {
		return s.fail(c, err)
	}
	sum.Timers = nonNil(sum.Timers)
	return c.JSON(http.StatusOK, sum)
}

// === Objectives ===

func (s *Server) handleCreateObjective(c echo.Context) error {
	var in coordinator.ObjectiveInput
	if err := bind(c, &in); err != nil {
		return s.fail(c, err)
	}
	obj, err := s.coord.CreateObjective(c.Request().Context(), currentUser(c), in)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, obj)
}

func (s *Server) handleListObjectives(c echo.Context) error {
	objectives, err := s.coord.ListObjectives(c.Request().Context(), currentUser(c), optionalQuery(c, "client_id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(objectives))
}

func (s *Server) handleUpdateObjective(c echo.Context) error {
	var patch coordinator.ObjectivePatch
	if err := bind(c, &patch); err != nil {
		return s.fail(c, err)
	}
	obj, err := s.coord.UpdateObjective(c.Request().Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, obj)
}

func (s *Server) handleDeleteObjective(c echo.Context) error {
	if err := s.coord.DeleteObjective(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func optionalQuery(c echo.Context, name string) *string {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	return &v
}

// nonNil makes empty listings encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
