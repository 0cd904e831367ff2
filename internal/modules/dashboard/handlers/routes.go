package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the request/response dashboard routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.HandleGetDashboard)      // Chart and metrics for query inputs
		r.Post("/hover", h.HandleHover)       // Hover badges for a chart point
		r.Get("/options", h.HandleGetOptions) // Selectable control values
	})
}

// RegisterStreamRoutes registers the long-lived WebSocket route. It must be
// mounted outside any request timeout middleware.
func (h *Handler) RegisterStreamRoutes(r chi.Router) {
	r.Get("/dashboard/ws", h.HandleWebSocket)
}
