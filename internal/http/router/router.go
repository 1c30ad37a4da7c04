package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/designmatch-backend/internal/config"
	"github.com/ignatzorin/designmatch-backend/internal/http/middleware"
	"github.com/ignatzorin/designmatch-backend/internal/interface/http/handler"
	"github.com/ignatzorin/designmatch-backend/internal/service"
)

type Handlers struct {
	Match    *handler.MatchHandler
	Designer *handler.DesignerHandler
	Health   *handler.HealthHandler
	WS       *handler.WSHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if h.WS != nil {
		api.GET("/ws", h.WS.Handle)
	}

	v1 := api.Group("/v1")
	v1.Use(middleware.AuthMiddleware(tokenManager))
	{
		v1.GET("/designers/:id", middleware.UUIDValidator("id"), h.Designer.GetDesigner)

		briefs := v1.Group("/briefs/:id", middleware.UUIDValidator("id"))
		briefs.GET("/matches", h.Match.ListMatches)

		// оценка ходит во внешний AI, поэтому запуск подбора ограничен отдельно
		matchLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		briefs.POST("/match", matchLimit, h.Match.FindMatch)
		briefs.GET("/match/stream", matchLimit, h.Match.StreamMatch)
	}

	return r
}
