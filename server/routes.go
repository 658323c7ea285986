package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteFunc("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}).ServeHTTP)

	s.RegisterRouteFunc("GET "+RouteAdminLogin, s.LoginStatusHandler())
	s.RegisterRouteFunc("POST "+RouteAdminLogin, s.LoginHandler())
	s.RegisterRouteFunc("POST "+RouteAdminLogout, s.LogoutHandler())

	s.RegisterRouteFunc("GET "+RouteAdmin, s.DashboardHandler(), s.RequireStaff)
	s.RegisterRouteFunc("GET "+RouteAdminAdmissions, s.AdmissionsListHandler(), s.RequireStaff)
	s.RegisterRouteFunc("GET "+RouteAdminAdmission, s.AdmissionDetailHandler(), s.RequireStaff)
	s.RegisterRouteFunc("PATCH "+RouteAdminAdmissionReview, s.AdmissionReviewHandler(), s.RequireStaff)
}
