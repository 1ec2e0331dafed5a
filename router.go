package blog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Route struct {
	Method     string
	Path       string
	Handler    gin.HandlerFunc
	Middleware []gin.HandlerFunc
}

type Controller interface {
	Routes() []Route
}

type RouterGroup struct {
	Path        string
	Middleware  []gin.HandlerFunc
	Controllers []Controller
}

func (s *Server) RegisterControllers(controllers ...Controller) {
	for _, controller := range controllers {
		registerRoutes(s.engine, controller.Routes())
	}
}

func (s *Server) RegisterGroups(groups ...RouterGroup) {
	for _, group := range groups {
		routerGroup := s.engine.Group(group.Path)

		if len(group.Middleware) > 0 {
			routerGroup.Use(group.Middleware...)
		}

		for _, controller := range group.Controllers {
			registerRoutes(routerGroup, controller.Routes())
		}
	}
}

func registerRoutes(r gin.IRoutes, routes []Route) {
	for _, route := range routes {
		handlers := append([]gin.HandlerFunc{}, route.Middleware...)
		handlers = append(handlers, route.Handler)

		switch route.Method {
		case http.MethodGet:
			r.GET(route.Path, handlers...)
		case http.MethodPost:
			r.POST(route.Path, handlers...)
		case http.MethodPut:
			r.PUT(route.Path, handlers...)
		case http.MethodDelete:
			r.DELETE(route.Path, handlers...)
		case http.MethodPatch:
			r.PATCH(route.Path, handlers...)
		case http.MethodOptions:
			r.OPTIONS(route.Path, handlers...)
		case http.MethodHead:
			r.HEAD(route.Path, handlers...)
		}
	}
}
