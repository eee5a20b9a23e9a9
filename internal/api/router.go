package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ad-campaign-builder/internal/observability"
)

func Router(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.Measure)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/preview/hierarchy", h.PreviewHierarchy)
		r.Post("/preview/keywords", h.PreviewKeywords)
		r.Post("/validate", h.Validate)

		r.Get("/blueprints", h.ListBlueprints)
		r.Post("/blueprints", h.SaveBlueprint)

		r.Route("/threads", func(r chi.Router) {
			r.Post("/", h.OpenThread)
			r.Route("/{sid}", func(r chi.Router) {
				r.Delete("/", h.CloseThread)
				r.Get("/tree", h.ThreadTree)
				r.Get("/replies", h.ThreadReplies)
				r.Post("/replies", h.AddReply)
				r.Patch("/replies/{id}", h.UpdateReply)
				r.Delete("/replies/{id}", h.DeleteReply)
				r.Post("/replies/{id}/reorder", h.ReorderReply)
				r.Post("/reassign-author", h.ReassignAuthor)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.MetricsHandler())
	return r
}
