// Token server for the ordering frontend: exchanges a room name and optional
// identity for a LiveKit join token.
package main

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	configx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/config"
	livekitx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/livekit"
	_ "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/logger/autoload"
)

type ServerConfig struct {
	Addr string `split_words:"true" default:":8080"`
}

type tokenRequest struct {
	RoomName string `json:"room_name"`
	Identity string `json:"identity"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	URL      string `json:"url"`
	RoomName string `json:"room_name"`
	Identity string `json:"identity"`
}

func main() {
	serverCfg := configx.MustNew[ServerConfig]("TOKEN_SERVER")
	lkCfg := configx.MustNew[livekitx.Config]("LIVEKIT")

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.POST("/token", func(c echo.Context) error {
		var req tokenRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}

		roomName := strings.TrimSpace(req.RoomName)
		if roomName == "" {
			roomName = lkCfg.Room
		}
		identity := strings.TrimSpace(req.Identity)
		if identity == "" {
			identity = "customer-" + uuid.NewString()
		}

		token, err := livekitx.MintToken(*lkCfg, roomName, identity)
		if err != nil {
			log.Error().Err(err).Str("room", roomName).Msg("mint token")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to mint token"})
		}

		return c.JSON(http.StatusOK, tokenResponse{
			Token:    token,
			URL:      lkCfg.URL,
			RoomName: roomName,
			Identity: identity,
		})
	})

	log.Info().Str("addr", serverCfg.Addr).Msg("token server listening")
	if err := e.Start(serverCfg.Addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("token server stopped")
	}
}
