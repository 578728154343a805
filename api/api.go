/*
Copyright 2025 OpenSPAR Mapper Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	mapper "github.com/openspar/mapper"
	"github.com/openspar/mapper/api/middleware"
	"github.com/openspar/mapper/config"
	"github.com/openspar/mapper/internal/apierror"
	"github.com/openspar/mapper/model"
)

type Api struct {
	mapper *mapper.Mapper
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	sync := router.Group("/mapper/sync")
	sync.POST("/link", a.SyncOperation(model.OpLink))
	sync.POST("/update", a.SyncOperation(model.OpUpdate))
	sync.POST("/resolve", a.SyncOperation(model.OpResolve))
	sync.POST("/unlink", a.SyncOperation(model.OpUnlink))

	async := router.Group("/mapper/async")
	async.POST("/link", a.AsyncOperation(model.OpLink))
	async.POST("/update", a.AsyncOperation(model.OpUpdate))
	async.POST("/resolve", a.AsyncOperation(model.OpResolve))
	async.POST("/unlink", a.AsyncOperation(model.OpUnlink))

	router.GET("/mappings", a.GetAllMappings)

	return a.router
}

func NewAPI(m *mapper.Mapper) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{mapper: m, router: r}
}

// GetAllMappings lists stored mappings, newest first, for operational
// inspection. Not part of the mapper protocol.
func (a Api) GetAllMappings(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	mappings, err := a.mapper.GetAllMappings(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mappings)
}
