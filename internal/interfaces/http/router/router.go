package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type registration struct {
	registrar  RouteRegistrar
	middleware []gin.HandlerFunc
}

// Router manages HTTP route registration under a versioned API prefix
type Router struct {
	engine        *gin.Engine
	apiVersion    string
	registrations []registration
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar mounted directly under the API prefix
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrations = append(r.registrations, registration{registrar: registrar})
	return r
}

// RegisterWith adds a RouteRegistrar whose routes run behind extra
// middleware. The middleware is scoped to that registrar only.
func (r *Router) RegisterWith(registrar RouteRegistrar, middleware ...gin.HandlerFunc) *Router {
	r.registrations = append(r.registrations, registration{
		registrar:  registrar,
		middleware: middleware,
	})
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, reg := range r.registrations {
		if len(reg.middleware) == 0 {
			reg.registrar.RegisterRoutes(api)
			continue
		}
		scoped := api.Group("")
		scoped.Use(reg.middleware...)
		reg.registrar.RegisterRoutes(scoped)
	}
}
