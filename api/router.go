// Package api serves games over HTTP as JSON.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/game"
)

type RouterConfig struct {
	GenMinDim int
	GenMaxDim int
}

func NewRouter(store *game.MemoryStore, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/create", CreateHandler(store, cfg.GenMinDim, cfg.GenMaxDim))
	r.POST("/upload", UploadHandler(store))

	g := r.Group("/games/:id")
	g.GET("", GetHandler(store))
	g.POST("/move", MoveHandler(store))
	g.GET("/ai", AIHandler(store))
	g.GET("/check", CheckHandler(store))
	g.GET("/points", PointsHandler(store))
	g.GET("/hint", HintHandler(store))

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http-request")
	}
}
