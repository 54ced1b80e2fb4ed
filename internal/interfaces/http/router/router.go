package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them under /api/<version> on Setup.
// Middleware passed to Use runs before any group middleware.
type Router struct {
	engine     *gin.Engine
	version    string
	middleware gin.HandlersChain
	registrars []RouteRegistrar
}

type RouterOption func(*Router)

// WithAPIVersion replaces the default "v1" segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.version = version }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// BasePath is the prefix every registrar is mounted under
func (r *Router) BasePath() string {
	return path.Join("/api", r.version)
}

func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// ResourceGroup holds the routes of one booking resource, such as
// /work-orders, plus nested groups that inherit its middleware.
type ResourceGroup struct {
	name       string
	prefix     string
	middleware gin.HandlersChain
	routes     []route
	children   []*ResourceGroup
}

type route struct {
	method   string
	path     string
	handlers gin.HandlersChain
}

func NewResourceGroup(name, prefix string) *ResourceGroup {
	return &ResourceGroup{name: name, prefix: prefix}
}

func (g *ResourceGroup) Name() string   { return g.name }
func (g *ResourceGroup) Prefix() string { return g.prefix }

func (g *ResourceGroup) Use(middleware ...gin.HandlerFunc) *ResourceGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

func (g *ResourceGroup) GET(relativePath string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodGet, relativePath, handlers)
}

func (g *ResourceGroup) POST(relativePath string, handlers ...gin.HandlerFunc) *ResourceGroup {
	return g.add(http.MethodPost, relativePath, handlers)
}

func (g *ResourceGroup) add(method, relativePath string, handlers gin.HandlersChain) *ResourceGroup {
	g.routes = append(g.routes, route{method: method, path: relativePath, handlers: handlers})
	return g
}

// Group nests a group under this one
func (g *ResourceGroup) Group(name, prefix string) *ResourceGroup {
	child := NewResourceGroup(name, prefix)
	g.children = append(g.children, child)
	return child
}

func (g *ResourceGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix, g.middleware...)
	for _, rt := range g.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, child := range g.children {
		child.RegisterRoutes(group)
	}
}
