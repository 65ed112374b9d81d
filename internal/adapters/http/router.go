package http

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Caption/internal/adapters/rtc"
	"github.com/dkeye/Caption/internal/app"
	"github.com/dkeye/Caption/internal/config"
	"github.com/dkeye/Caption/internal/predict"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware tags every browser with a stable token cookie,
// used as the rate-limit key. Connection identity on the WS side is
// separate and per-socket.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization")
	if len(cfg.CORSOrigins) == 0 {
		// Dev default: any origin.
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = cfg.CORSOrigins
	cc.AllowCredentials = true
	return cc
}

func SetupRouter(ctx context.Context, cfg *config.Config, reg *app.Registry, ctl *rtc.Controller, predictor *predict.Client) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("CaptionSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &Handlers{Registry: reg, Predictor: predictor, STUNURLs: cfg.STUNURLs}
	limiter := NewClientRateLimiter(cfg.RateLimit, cfg.RateWindow)

	api := r.Group("/api")
	api.Use(RateLimitMiddleware(limiter))

	api.GET("/health", h.Health)
	api.GET("/config", h.RTCConfig)
	api.GET("/rooms/:roomId", h.RoomSnapshot)
	api.POST("/invitations", h.CreateInvitation)
	api.POST("/predictions/predict", h.Predict)
	api.GET("/predictions/health", h.PredictHealth)

	r.GET("/ws/rtc", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Msg("ws rtc endpoint hit")
		ctl.HandleRTC(ctx, c)
	})

	return r
}
