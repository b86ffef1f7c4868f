package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"bannerlab/internal/http/handlers"
	"bannerlab/internal/middleware"
)

// Options tunes the router middleware stack.
type Options struct {
	AllowedOrigins []string
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
	// RateLimit caps mutating requests per client IP per minute;
	// zero disables the limiter.
	RateLimit int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/healthz", app.Health)

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(middleware.RateLimit(opts.RateLimit, time.Minute))
		}

		r.Route("/nicknames", func(r chi.Router) {
			r.Post("/", app.UsersCreate)
			r.Get("/{user_id}", app.UsersGet)
		})

		r.Route("/images", func(r chi.Router) {
			r.Post("/", app.ImagesUpload)
			r.Get("/{image_id}", app.ImagesGet)
			r.Delete("/{image_id}", app.ImagesDelete)
		})

		r.Route("/backgrounds", func(r chi.Router) {
			r.Post("/", app.BackgroundsCreate)
			r.Get("/{background_id}", app.BackgroundsGet)
			r.Put("/{background_id}", app.BackgroundsUpdate)
			r.Delete("/{background_id}", app.BackgroundsDelete)
		})

		r.Route("/recreated-backgrounds", func(r chi.Router) {
			r.Post("/", app.RecreatedCreate)
			r.Get("/{recreated_id}", app.RecreatedGet)
			r.Delete("/{recreated_id}", app.RecreatedDelete)
		})

		r.Route("/resizings", func(r chi.Router) {
			r.Post("/", app.ResizingsCreate)
			r.Get("/{resizing_id}", app.ResizingsGet)
			r.Delete("/{resizing_id}", app.ResizingsDelete)
		})

		r.Route("/resizings-recreated", func(r chi.Router) {
			r.Post("/", app.ResizingsRecreatedCreate)
			r.Get("/{resizing_id}", app.ResizingsGet)
			r.Delete("/{resizing_id}", app.ResizingsDelete)
		})

		r.Route("/banners", func(r chi.Router) {
			r.Post("/", app.BannersCreate)
			r.Get("/{banner_id}", app.BannersGet)
			r.Put("/{banner_id}", app.BannersUpdate)
			r.Delete("/{banner_id}", app.BannersDelete)
		})

		r.Get("/task-status/{task_id}", app.TaskStatus)
	})

	return r
}
