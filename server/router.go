// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package server exposes a CompressionService over HTTP.

	POST /api/v1/payloads?name=NAME      compress the raw request body
	GET  /api/v1/payloads                list stored payloads
	GET  /api/v1/payloads/:id            describe one payload
	GET  /api/v1/payloads/:id/content    the decompressed original
	GET  /api/v1/payloads/:id/blob       the serialized payload
*/
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"

	"github.com/blanu/huffpack/config"
	"github.com/blanu/huffpack/service"
)

var log = logging.MustGetLogger("huffpack/server")

type Dependencies struct {
	PayloadHandler *PayloadHandler
}

func Register(r *gin.Engine, d Dependencies) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/api/v1")
	{
		payloads := v1.Group("/payloads")
		{
			payloads.POST("", d.PayloadHandler.Create)
			payloads.GET("", d.PayloadHandler.List)
			payloads.GET("/:id", d.PayloadHandler.GetByID)
			payloads.GET("/:id/content", d.PayloadHandler.Content)
			payloads.GET("/:id/blob", d.PayloadHandler.Blob)
		}
	}
}

// accessLog logs one line per request through go-logging rather than gin's own writer.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infof("%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// New returns an engine serving svc with the settings in cfg.
func New(cfg config.Config, svc *service.CompressionService) *gin.Engine {
	r := gin.New()
	r.Use(accessLog(), gin.Recovery())
	Register(r, Dependencies{
		PayloadHandler: NewPayloadHandler(svc, cfg.MaxBody),
	})
	return r
}
