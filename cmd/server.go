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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/openspar/mapper/api"
	"github.com/openspar/mapper/config"
)

func initializeRouter(b *mapperInstance) *gin.Engine {
	return api.NewAPI(b.mapper).Router()
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

// shutdownOnSignal drains the dispatch pool when the process receives an
// interrupt, so accepted async batches get to finish.
func shutdownOnSignal(b *mapperInstance) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := b.mapper.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		os.Exit(0)
	}()
}

func serverCommands(b *mapperInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start mapper server",
		Run: func(cmd *cobra.Command, args []string) {
			router := initializeRouter(b)
			shutdownOnSignal(b)
			if err := startServer(router, b.cnf.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
