package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/usecase"
	"github.com/notedrop/notedrop/pkg/utils/errutil"
	"github.com/notedrop/notedrop/pkg/utils/logging"
	"github.com/notedrop/notedrop/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/notes", func(r chi.Router) {
			r.Post("/", s.createNote)
			r.Get("/", s.listNotes)
			r.Get("/{id}", s.getNote)
		})
		r.Route("/actions", func(r chi.Router) {
			r.Get("/", s.listActions)
			r.Post("/{id}/done", s.markActionDone)
		})
		r.Route("/masters", func(r chi.Router) {
			r.Get("/{category}", s.listMasters)
			r.Post("/", s.addMaster)
			r.Post("/deactivate", s.deactivateMaster)
			r.Post("/push-schema", s.pushSchema)
		})
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.getSettings)
			r.Put("/", s.saveSettings)
		})
		r.Post("/sync", s.triggerSync)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// handleError maps the domain error taxonomy onto HTTP status codes.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrConfiguration):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrRemoteSchema):
		status = http.StatusBadGateway
	case errors.Is(err, types.ErrSyncAlreadyRunning),
		errors.Is(err, types.ErrMasterLocked),
		errors.Is(err, types.ErrMasterInUse):
		status = http.StatusConflict
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}
