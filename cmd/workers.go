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
	"errors"
	"log"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	mapper "github.com/openspar/mapper"
	"github.com/openspar/mapper/config"
)

func initializeWorkerServer(conf *config.Configuration) (*asynq.Server, error) {
	if conf.Redis.Dns == "" {
		return nil, errors.New("workers require a Redis DNS in the configuration")
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: conf.Redis.Dns},
		asynq.Config{
			Concurrency: conf.Dispatch.WorkerCount,
			Queues: map[string]int{
				conf.Callback.QueueName: 1,
			},
		},
	), nil
}

// workerCommands starts the asynq consumer that drains the callback queue.
// The server process enqueues deliveries; this process posts them.
func workerCommands(b *mapperInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start mapper callback workers",
		Run: func(cmd *cobra.Command, args []string) {
			srv, err := initializeWorkerServer(b.cnf)
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			mux.HandleFunc(b.cnf.Callback.QueueName, mapper.ProcessCallback)

			log.Println(" [*] Starting callback workers")
			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run worker server: %v", err)
			}
		},
	}

	return cmd
}
