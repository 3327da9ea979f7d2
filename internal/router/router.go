package router

import (
	"net/http"
	"net/url"

	docs "github.com/budgetbook/backend/api"
	"github.com/budgetbook/backend/internal/config"
	"github.com/budgetbook/backend/internal/controllers/healthz"
	v1 "github.com/budgetbook/backend/internal/controllers/v1"
	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Set at build time with -ldflags "-X github.com/budgetbook/backend/internal/router.version=<version>".
var version = "0.0.0"

// Config sets up the gin engine with all middlewares. The returned
// teardown function must be called when the engine is no longer used.
func Config(cfg config.Config) (*gin.Engine, func(), error) {
	teardown := func() {
		if !unregisterPrometheusMetrics() {
			log.Debug().Msg("some Prometheus metrics were not registered")
		}
	}

	var baseURL *url.URL
	if cfg.APIURL != "" {
		u, err := url.Parse(cfg.APIURL)
		if err != nil {
			return nil, teardown, err
		}
		baseURL = u
	}

	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(ContextLogger())
	r.Use(URLMiddleware(baseURL))
	r.Use(LocaleMiddleware())
	r.NoMethod(func(c *gin.Context) {
		httputil.NewError(c, http.StatusMethodNotAllowed, "this HTTP method is not allowed for the endpoint you called")
	})
	r.NoRoute(func(c *gin.Context) {
		httputil.NewError(c, http.StatusNotFound, "there is no endpoint at this path")
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	if err := registerPrometheusMetrics(); err != nil {
		return nil, teardown, err
	}
	r.Use(MetricsMiddleware())

	// CORS settings
	if len(cfg.CORSAllowOrigins) > 0 {
		log.Debug().Strs("CORS Allowed Origins", cfg.CORSAllowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept-Language"},
			ExposeHeaders:    []string{"Content-Language", "X-Request-Id"},
			AllowCredentials: true,
		}))
	}

	// pprof performance profiles
	if cfg.EnablePprof {
		pprof.Register(r)
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Info().Str("version", version).Msg("Router")

	docs.SwaggerInfo.Title = "Budgetbook"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for Budgetbook, a personal finance application with categorized transactions, monthly budgets and spending analytics."
	if baseURL != nil {
		log.Debug().Str("API Base URL", baseURL.String()).Str("Host", baseURL.Host).Str("Path", baseURL.Path).Msg("Router")
		docs.SwaggerInfo.Host = baseURL.Host
		docs.SwaggerInfo.BasePath = baseURL.Path
	}

	return r, teardown, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in
// Separating this from Config() allows us to attach it to different
// paths for different use cases, e.g. behind a path prefix.
func AttachRoutes(co v1.Controller, group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthz.RegisterRoutes(group.Group("/healthz"), co.Registry)

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 setup
	v1 := group.Group("/v1")
	{
		v1.GET("", GetV1)
		v1.OPTIONS("", OptionsV1)
	}

	co.RegisterAuthRoutes(v1.Group("/auth"))
	co.RegisterNavigationRoutes(v1.Group("/navigation"))
	co.RegisterCategoryRoutes(v1.Group("/categories"))

	session := co.RequireSession()
	co.RegisterTransactionRoutes(v1.Group("/transactions", session))
	co.RegisterBudgetRoutes(v1.Group("/budgets", session))
	co.RegisterAnalyticsRoutes(v1.Group("/analytics", session))
	co.RegisterProfileRoutes(v1.Group("/profile", session))
	co.RegisterTagCategoryRoutes(v1.Group("/tag-categories", session))
	co.RegisterTagRoutes(v1.Group("/tags", session))
	co.RegisterAdminRoutes(v1.Group("/admin", session))
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/api/docs/index.html"` // Swagger API documentation
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"`      // Health of the backend
	Metrics string `json:"metrics" example:"https://example.com/api/metrics"`      // Prometheus metrics
	Version string `json:"version" example:"https://example.com/api/version"`      // Endpoint returning the version of the backend
	V1      string `json:"v1" example:"https://example.com/api/v1"`                // List endpoint for all v1 endpoints
}

// GetRoot returns the link list for the API root
//
//	@Summary		API root
//	@Description	Entrypoint for the API, listing all endpoints
//	@Tags			General
//	@Success		200	{object}	RootResponse
//	@Router			/ [get]
func GetRoot(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    url + "/docs/index.html",
			Healthz: url + "/healthz",
			Metrics: url + "/metrics",
			Version: url + "/version",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}

type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the backend
}

// GetVersion returns the API version object
//
//	@Summary		API version
//	@Description	Returns the software version of the API
//	@Tags			General
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// OptionsRoot returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// OptionsVersion returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"` // Links for the v1 API
}

type V1Links struct {
	Auth          string `json:"auth" example:"https://example.com/api/v1/auth"`                    // Authentication endpoints
	Navigation    string `json:"navigation" example:"https://example.com/api/v1/navigation"`        // Navigation decisions
	Categories    string `json:"categories" example:"https://example.com/api/v1/categories"`        // Expense categories
	Transactions  string `json:"transactions" example:"https://example.com/api/v1/transactions"`    // Transactions of the user
	Budgets       string `json:"budgets" example:"https://example.com/api/v1/budgets"`              // Monthly budgets of the user
	Analytics     string `json:"analytics" example:"https://example.com/api/v1/analytics"`          // Spending analytics of the user
	Profile       string `json:"profile" example:"https://example.com/api/v1/profile"`              // Profile of the user
	TagCategories string `json:"tagCategories" example:"https://example.com/api/v1/tag-categories"` // Tag categories of the user
	Tags          string `json:"tags" example:"https://example.com/api/v1/tags"`                    // Tags of the user
	Admin         string `json:"admin" example:"https://example.com/api/v1/admin"`                  // Administration
}

// GetV1 returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	V1Response
//	@Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL)) + "/v1"

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Auth:          url + "/auth",
			Navigation:    url + "/navigation",
			Categories:    url + "/categories",
			Transactions:  url + "/transactions",
			Budgets:       url + "/budgets",
			Analytics:     url + "/analytics",
			Profile:       url + "/profile",
			TagCategories: url + "/tag-categories",
			Tags:          url + "/tags",
			Admin:         url + "/admin",
		},
	})
}

// OptionsV1 returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
