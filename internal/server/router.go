package server

import (
	"net/http"

	"client-registry/internal/handlers"
	"client-registry/internal/metrics"
	"client-registry/internal/middleware"
	"client-registry/internal/service"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Clients *service.ClientService
	Audit   handlers.AuditReader
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())

	clients := handlers.NewClientHandler(d.Clients)
	r.GET("/clients", clients.ListClients)
	r.POST("/clients", clients.CreateClient)
	r.GET("/clients/:slug", clients.ShowClient)
	r.PUT("/clients/:slug", clients.UpdateClient)
	r.PATCH("/clients/:slug", clients.UpdateClient)
	r.DELETE("/clients/:slug", clients.DeleteClient)

	if d.Audit != nil {
		r.GET("/audit", handlers.NewAuditHandler(d.Audit).ListAuditLogs)
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
