package server

import (
	"github.com/jrsteele09/go-session-server/internal/obs"
	"github.com/jrsteele09/go-session-server/principals"
)

func (s *Server) initRoutes() {
	// USER
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSignin, ChainMiddleware(s.SigninHandler(principals.RoleUser), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSignout, ChainMiddleware(s.SignoutHandler(principals.RoleUser), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteRefreshToken, ChainMiddleware(s.RefreshTokenHandler(principals.RoleUser), s.APIMiddleware()...))

	// ADMIN
	s.RegisterRouteHandler("POST "+RouteAdminSignin, ChainMiddleware(s.SigninHandler(principals.RoleAdmin), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAdminSignout, ChainMiddleware(s.SignoutHandler(principals.RoleAdmin), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAdminRefreshToken, ChainMiddleware(s.RefreshTokenHandler(principals.RoleAdmin), s.APIMiddleware()...))

	// Protected resources
	s.RegisterRouteHandler("GET "+RouteMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth(principals.RoleUser))...))
	s.RegisterRouteHandler("GET "+RouteAdminMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAdmin())...))

	s.RegisterRouteFunc("GET "+RouteHealth, obs.HealthHandler(s.health))
	s.RegisterRouteHandler("GET "+RouteMetrics, obs.MetricsHandler())
}
