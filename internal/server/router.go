package server

import (
	"net/http"

	"morsechat/internal/auth"
	"morsechat/internal/config"
	"morsechat/internal/metrics"
	"morsechat/internal/mw"
	"morsechat/internal/service"
	"morsechat/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRouter 统一初始化 Gin 中间件和 REST API。消息通过轮询获取，没有长连接。
func SetupRouter(cfg config.Config, db *gorm.DB) *gin.Engine {
	h := NewHandler(
		service.NewAccountService(db, cfg),
		service.NewRequestService(db, cfg),
		service.NewMessageService(db, cfg),
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestID())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env, cfg.CORSAllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/refresh", h.RefreshToken)
	api.POST("/auth/logout", h.Logout)

	api.GET("/morse/table", h.MorseTable)
	api.POST("/morse/encode", h.Encode)
	api.POST("/morse/decode", h.Decode)

	// 需要 Bearer Token 的业务接口。
	authed := api.Group("")
	authed.Use(auth.Middleware(cfg.JWTSecret, store.NewAccountStore(db)))

	authed.GET("/accounts", h.ListAccounts)

	authed.POST("/requests", h.SendChatRequest)
	authed.GET("/requests/incoming", h.ListIncomingRequests)
	authed.GET("/requests/outgoing", h.ListOutgoingRequests)
	authed.POST("/requests/:id/respond", h.RespondToChatRequest)

	authed.GET("/chats/:id/messages", h.ListMessages)
	authed.POST("/chats/:id/messages", h.SendMessage)

	return r
}
