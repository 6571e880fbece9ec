package handlers

import (
	"net/http"

	"github.com/tphummel/lab_stock/internal/metrics"
	"github.com/tphummel/lab_stock/internal/middleware"
)

type route struct {
	method  string
	path    string
	auth    bool
	handler http.HandlerFunc
}

func (h *Handler) routes() []route {
	return []route{
		// Health and docs, no auth
		{http.MethodGet, "/healthz", false, h.Health},
		{http.MethodGet, "/openapi.yaml", false, OpenAPISpec},
		{http.MethodGet, "/docs", false, Docs},

		// Resource CRUD and quantity operations, Bearer token auth required
		{http.MethodPost, "/api/v1/resources", true, h.CreateResource},
		{http.MethodGet, "/api/v1/resources", true, h.ListResources},
		{http.MethodGet, "/api/v1/resources/{id}", true, h.GetResource},
		{http.MethodPut, "/api/v1/resources/{id}", true, h.UpdateResource},
		{http.MethodDelete, "/api/v1/resources/{id}", true, h.DeleteResource},
		{http.MethodPost, "/api/v1/resources/{id}/{op}", true, h.ApplyOperation},
	}
}

// Register adds every API route to mux. Each route records HTTP metrics under
// its pattern; /api routes require token.
func (h *Handler) Register(mux *http.ServeMux, token string) {
	for _, rt := range h.routes() {
		var next http.Handler = rt.handler
		if rt.auth {
			next = middleware.Auth(token, next)
		}
		mux.Handle(rt.method+" "+rt.path, metrics.Middleware(rt.path, next))
	}
}
