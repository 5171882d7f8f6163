// Package httpapi binds the account and task services to HTTP under
// /api/v1, with bearer-token auth on every task route and a websocket
// endpoint for task lifecycle events.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"taskboard/internal/notify"
	"taskboard/internal/service"
)

// Handlers aggregates the services behind the HTTP endpoints.
type Handlers struct {
	accounts *service.AccountService
	tasks    *service.TaskService
}

func NewHandlers(accounts *service.AccountService, tasks *service.TaskService) *Handlers {
	return &Handlers{accounts: accounts, tasks: tasks}
}

// Hello answers the API root.
func (h *Handlers) Hello(c *gin.Context) {
	respondSuccess(c, 200, "Hello World!", "Hello World!")
}

// NewRouter wires all routes. The events endpoint carries no auth, matching
// the broadcast gateway it replaces: anyone may listen, events are
// best-effort notifications, not data access.
func NewRouter(accounts *service.AccountService, tasks *service.TaskService, hub *notify.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	h := NewHandlers(accounts, tasks)

	api := r.Group("/api/v1")
	api.GET("", h.Hello)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/events", hub.Handler())

	t := api.Group("/tasks", RequireAuth(accounts))
	t.GET("", h.ListTasks)
	t.GET("/user", h.ListOwnTasks)
	t.GET("/user/:id", h.ListUserTasks)
	t.GET("/:id", h.GetTask)
	t.POST("", h.CreateTask)
	t.POST("/:id", h.UpdateTask)
	t.POST("/:id/status", h.UpdateTaskStatus)
	t.DELETE("/:id/delete", h.DeleteTask)

	return r
}
