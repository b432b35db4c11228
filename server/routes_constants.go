package server

// User account routes
const (
	RouteSignup       = "/auth/signup"
	RouteSignin       = "/auth/signin"
	RouteSignout      = "/auth/signout"
	RouteRefreshToken = "/auth/refresh-token"
)

// Admin account routes
const (
	RouteAdminSignin       = "/admin/auth/signin"
	RouteAdminSignout      = "/admin/auth/signout"
	RouteAdminRefreshToken = "/admin/auth/refresh-token"
)

// Protected resources
const (
	RouteMe      = "/api/me"
	RouteAdminMe = "/admin/me"
)

// Operational endpoints
const (
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
