package server

import "github.com/sunnysmathworld/smw-admin/guard"

// Route path constants
const (
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"

	// Admin shell
	RouteAdmin       = guard.AdminPrefix
	RouteAdminLogin  = guard.LoginPath
	RouteAdminLogout = "/admin/logout"

	// Admin JSON API
	RouteAdminAPI             = "/admin/api"
	RouteAdminAdmissions      = RouteAdminAPI + "/admissions"
	RouteAdminAdmission       = RouteAdminAdmissions + "/{id}"
	RouteAdminAdmissionReview = RouteAdminAdmission + "/review"
)
