package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "larry/internal/api/context"
	"larry/internal/api/handlers"
	"larry/internal/api/middleware"
	"larry/internal/pkg/errors"
	"larry/internal/platform/auth"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	CodeHandler    *handlers.CodeHandler
	AuditHandler   *handlers.AuditHandler
	RenderHandler  *handlers.RenderHandler
	HealthHandler  *handlers.HealthHandler
	MetricsHandler *handlers.MetricsHandler
	AuthMiddleware *middleware.AuthMiddleware
	RenderLimiter  *middleware.RateLimiter
	APILimiter     *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Route not found", nil)
	})

	// Operations
	router.GET("/health", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	// Public render endpoint
	router.GET("/qr", chain(deps.RenderHandler.Render, deps.RenderLimiter.Handle))

	// Authentication
	router.POST("/api/v1/auth/token", chain(deps.AuthHandler.Token, deps.APILimiter.Handle))

	authMid := deps.AuthMiddleware
	apiLim := deps.APILimiter
	read := middleware.RequireScope(auth.ScopeCodesRead)
	write := middleware.RequireScope(auth.ScopeCodesWrite)

	// Stored codes
	router.POST("/api/v1/codes",
		chain(deps.CodeHandler.Create, apiLim.Handle, authMid.Handle, write))
	router.GET("/api/v1/codes",
		chain(deps.CodeHandler.List, apiLim.Handle, authMid.Handle, read))
	router.GET("/api/v1/codes/:code_id",
		chain(deps.CodeHandler.Get, apiLim.Handle, authMid.Handle, read))
	router.GET("/api/v1/codes/:code_id/image",
		chain(deps.CodeHandler.Image, apiLim.Handle, authMid.Handle, read))
	router.DELETE("/api/v1/codes/:code_id",
		chain(deps.CodeHandler.Delete, apiLim.Handle, authMid.Handle, write))

	// Audit trail of the calling client
	router.GET("/api/v1/audit",
		chain(deps.AuditHandler.List, apiLim.Handle, authMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
