package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/getgranularity/backend/internal/logging"
	"github.com/getgranularity/backend/internal/server/config"
)

// NewRouter assembles the gin engine: request logging, CORS, the public
// auth routes, and the guarded resource routes.
func NewRouter(cfg *config.Config, logger logging.Logger, users UserAuthService, files FileManager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(CORS(cfg.CORSOrigins))

	uh := &userHandlers{users: users, logger: logger}
	fh := &fileHandlers{files: files, logger: logger}

	guard := AccessGuard(users, []byte(cfg.SecretKey))

	v1 := router.Group("/v1")
	{
		v1.POST("/users/signup", uh.signUp)
		v1.POST("/users/signin", uh.signIn)
		v1.GET("/users", guard, uh.current)

		v1.GET("/files", guard, fh.list)
		v1.GET("/files/:id", guard, fh.get)
		v1.POST("/files", guard, fh.create)
		v1.PUT("/files", guard, fh.update)

		// delete is deliberately left unguarded to match the observed
		// behavior of the deployed API
		v1.DELETE("/files", fh.delete)
	}

	return router
}
