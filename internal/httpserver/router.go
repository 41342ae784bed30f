package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"funkosrest/internal/auth"
	"funkosrest/internal/httpserver/handlers"
	"funkosrest/internal/models"
	"funkosrest/internal/notification"
	"funkosrest/internal/service"
	"funkosrest/internal/session"
	"funkosrest/internal/storage"
)

type Deps struct {
	Categories *service.CategoryService
	Funkos     *service.FunkoService
	Users      *service.UserService
	Auth       *service.AuthService
	JWT        *auth.JWTService
	Sessions   *session.Manager
	Broker     notification.Broker
	Files      storage.Service
	// SignInPerMinute throttles sign-in attempts per IP; 0 disables it.
	SignInPerMinute int
	// TrustProxy replaces the peer address with the forwarded client IP.
	TrustProxy bool
}

func NewRouter(d Deps, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if d.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer, RequestLogger(lg))

	r.Route("/api", func(api chi.Router) {
		api.Use(auth.JWTAuth(d.JWT, d.Users, lg))

		api.Post("/auth/signup", handlers.SignUp(d.Auth, lg))
		api.With(RateLimit(d.SignInPerMinute, lg)).Post("/auth/signin", handlers.SignIn(d.Auth, d.Sessions, lg))
		api.Get("/auth/session", handlers.CurrentSession(d.Sessions, lg))
		api.Post("/auth/signout", handlers.SignOut(d.Sessions, lg))

		api.Get("/funkos", handlers.ListFunkos(d.Funkos, lg))
		api.Get("/funkos/{id}", handlers.GetFunko(d.Funkos, lg))

		api.Group(func(protected chi.Router) {
			protected.Use(auth.Authenticated(lg))
			protected.Get("/categories", handlers.ListCategories(d.Categories, lg))
			protected.Get("/categories/{id}", handlers.GetCategory(d.Categories, lg))
			protected.Get("/notifications/funkos", handlers.StreamFunkoNotifications(d.Broker, lg))
			protected.Get("/users/me/profile", handlers.Me(d.Users, lg))
			protected.Put("/users/me/profile", handlers.UpdateMe(d.Users, lg))
			protected.Delete("/users/me/profile", handlers.DeleteMe(d.Users, lg))
		})

		api.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(models.RoleAdmin, lg))
			admin.Post("/categories", handlers.CreateCategory(d.Categories, lg))
			admin.Put("/categories/{id}", handlers.UpdateCategory(d.Categories, lg))
			admin.Patch("/categories/{id}", handlers.PatchCategory(d.Categories, lg))
			admin.Delete("/categories/{id}", handlers.DeleteCategory(d.Categories, lg))

			admin.Post("/funkos", handlers.CreateFunko(d.Funkos, lg))
			admin.Put("/funkos/{id}", handlers.UpdateFunko(d.Funkos, lg))
			admin.Patch("/funkos/{id}", handlers.PatchFunko(d.Funkos, lg))
			admin.Patch("/funkos/image/{id}", handlers.UpdateFunkoImage(d.Funkos, lg))
			admin.Delete("/funkos/{id}", handlers.DeleteFunko(d.Funkos, lg))

			admin.Get("/users", handlers.ListUsers(d.Users, lg))
			admin.Post("/users", handlers.CreateUser(d.Users, lg))
			admin.Get("/users/{id}", handlers.GetUser(d.Users, lg))
			admin.Put("/users/{id}", handlers.UpdateUser(d.Users, lg))
			admin.Delete("/users/{id}", handlers.DeleteUser(d.Users, lg))
		})
	})

	r.Get("/storage/{filename}", handlers.ServeFile(d.Files, lg))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
