package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	billingcontrollers "github.com/provia-hq/provia/modules/billing/presentation/controllers"
	billingservices "github.com/provia-hq/provia/modules/billing/services"
	orgcontrollers "github.com/provia-hq/provia/modules/orgchart/presentation/controllers"
	orgservices "github.com/provia-hq/provia/modules/orgchart/services"
	"github.com/provia-hq/provia/pkg/configuration"
	"github.com/provia-hq/provia/pkg/httpapi"
	"github.com/provia-hq/provia/pkg/middleware"
	"github.com/provia-hq/provia/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Trees         *orgservices.TreeService
	Reports       *billingservices.ReportService
}

func Default(options *DefaultOptions) *server.HTTPServer {
	controllers := []server.Controller{
		orgcontrollers.NewOrgchartAPIController(options.Trees),
		billingcontrollers.NewBillingAPIController(options.Reports),
	}
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
	}
	return server.NewHTTPServer(
		controllers,
		middlewares,
		notFoundHandler(),
		methodNotAllowedHandler(),
	)
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no such route", httpapi.RequestMeta("", r.URL.Path))
	})
}

func methodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed for this route", httpapi.RequestMeta("", r.URL.Path))
	})
}
