// Package pointsmarketplace предоставляет маршруты для основного приложения.
package pointsmarketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/points-marketplace/internal/config"
	"github.com/magabrotheeeer/points-marketplace/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/points-marketplace/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/points-marketplace/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/points-marketplace/internal/http/handlers/auth/register"
	balanceread "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/balance/read"
	formulacreate "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/formula/create"
	formulaevaluate "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/formula/evaluate"
	formulalist "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/formula/list"
	formularead "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/formula/read"
	formularemove "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/formula/remove"
	formulaupdate "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/formula/update"
	"github.com/magabrotheeeer/points-marketplace/internal/http/handlers/health"
	"github.com/magabrotheeeer/points-marketplace/internal/http/handlers/order/createformula"
	"github.com/magabrotheeeer/points-marketplace/internal/http/handlers/order/createservice"
	orderlist "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/order/list"
	"github.com/magabrotheeeer/points-marketplace/internal/http/handlers/order/updatenotes"
	"github.com/magabrotheeeer/points-marketplace/internal/http/handlers/order/updatestatus"
	packageadjust "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/pointpackage/adjust"
	packagelist "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/pointpackage/list"
	packageorders "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/pointpackage/orders"
	packagepurchase "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/pointpackage/purchase"
	packageremove "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/pointpackage/remove"
	packageupdate "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/pointpackage/update"
	userlist "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/user/list"
	userremove "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/points-marketplace/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/points-marketplace/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/points-marketplace/internal/services/auth"
	balanceservice "github.com/magabrotheeeer/points-marketplace/internal/services/balance"
	formulaservice "github.com/magabrotheeeer/points-marketplace/internal/services/formula"
	orderservice "github.com/magabrotheeeer/points-marketplace/internal/services/order"
	packageservice "github.com/magabrotheeeer/points-marketplace/internal/services/pointpackage"
	"github.com/magabrotheeeer/points-marketplace/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, db *repository.Storage,
	authService *authservice.Service, balanceService *balanceservice.Service,
	formulaService *formulaservice.Service, orderService *orderservice.Service,
	packageService *packageservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Use(middlewarectx.OptionalSessionMiddleware(authService, cfg.SessionToken.CookieName, logger))
			r.Post("/register", register.New(logger, authService).ServeHTTP)
			r.Post("/login", login.New(logger, authService, cfg.SessionToken).ServeHTTP)
			r.Get("/formulas", formulalist.New(logger, formulaService).ServeHTTP)
			r.Get("/formulas/{id}", formularead.New(logger, formulaService).ServeHTTP)
			r.Post("/formulas/{id}/evaluate", formulaevaluate.New(logger, formulaService).ServeHTTP)
		})

		// Группа с cookie-сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, cfg.SessionToken.CookieName, logger))
			r.Post("/logout", logout.New(logger, cfg.SessionToken).ServeHTTP)
			r.Put("/password", changepassword.New(logger, authService).ServeHTTP)

			r.Get("/balance", balanceread.New(logger, balanceService).ServeHTTP)

			r.Post("/packages", packagepurchase.New(logger, packageService).ServeHTTP)
			r.Get("/packages", packagelist.New(logger, packageService).ServeHTTP)
			r.Get("/packages/orders", packageorders.New(logger, packageService).ServeHTTP)

			r.Post("/orders/formula", createformula.New(logger, orderService).ServeHTTP)
			r.Post("/orders/service", createservice.New(logger, orderService).ServeHTTP)
			r.Get("/orders", orderlist.New(logger, orderService).ServeHTTP)

			// Административная группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))
				r.Post("/admin/formulas", formulacreate.New(logger, formulaService).ServeHTTP)
				r.Put("/admin/formulas/{id}", formulaupdate.New(logger, formulaService).ServeHTTP)
				r.Delete("/admin/formulas/{id}", formularemove.New(logger, formulaService).ServeHTTP)

				r.Post("/admin/packages/{id}/adjust", packageadjust.New(logger, packageService).ServeHTTP)
				r.Put("/admin/packages/{id}", packageupdate.New(logger, packageService).ServeHTTP)
				r.Delete("/admin/packages/{id}", packageremove.New(logger, packageService).ServeHTTP)

				r.Put("/admin/orders/{id}/status", updatestatus.New(logger, orderService).ServeHTTP)
				r.Put("/admin/orders/{id}/notes", updatenotes.New(logger, orderService).ServeHTTP)

				r.Get("/admin/users", userlist.New(logger, db).ServeHTTP)
				r.Put("/admin/users/{uid}", userupdate.New(logger, db).ServeHTTP)
				r.Delete("/admin/users/{uid}", userremove.New(logger, db).ServeHTTP)
			})
		})

		r.Get("/health", health.New(logger, db).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
