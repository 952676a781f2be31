package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/qrave1/ListenRoom/internal/application/config"
	"github.com/qrave1/ListenRoom/internal/domain/policy"
	"github.com/qrave1/ListenRoom/internal/infra/ports/http/handlers"
	"github.com/qrave1/ListenRoom/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	roomHandler *handlers.RoomHandler,
	songHandler *handlers.SongHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.WebURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))

	api := e.Group("/api")
	api.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	{
		authGroup := api.Group("/auth")
		{
			authGroup.GET("/google/login", authHandler.GoogleLogin)
			authGroup.GET("/google/callback", authHandler.GoogleCallback)
			authGroup.POST("/logout", authHandler.Logout)
		}

		songs := api.Group("/songs")
		{
			songs.GET("", songHandler.SearchSongs)
			songs.GET("/all", songHandler.ListSongs)
			songs.POST("/available", songHandler.CheckAvailability)
		}

		v1 := api.Group("/v1")
		v1.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		{
			v1.GET("/me", authHandler.GetMe)
			v1.POST("/admin/access", authHandler.AdminAccess)

			v1.GET("/ws", wsHandler.Handle)

			v1.GET("/rooms", roomHandler.ListRooms)
			v1.POST("/rooms", roomHandler.CreateRoom)
			v1.PUT("/rooms/:rid", roomHandler.UpdateRoom)
			v1.DELETE("/rooms/:rid", roomHandler.DeleteRoom)

			v1.POST("/rooms/:rid/promote/admin/:uid", roomHandler.ChangeRole(policy.PromoteAdmin))
			v1.POST("/rooms/:rid/demote/admin/:uid", roomHandler.ChangeRole(policy.DemoteAdmin))
			v1.POST("/rooms/:rid/promote/controller/:uid", roomHandler.ChangeRole(policy.PromoteController))
			v1.POST("/rooms/:rid/demote/controller/:uid", roomHandler.ChangeRole(policy.DemoteController))

			v1.POST("/songs", songHandler.CreateSong)
			v1.PUT("/songs/:sid", songHandler.UpdateSong)
			v1.DELETE("/songs/:sid", songHandler.DeleteSong)
		}
	}

	return e
}
