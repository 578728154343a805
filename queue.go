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

package mapper

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"

	"github.com/openspar/mapper/config"
	"github.com/openspar/mapper/model"
)

// Queue wraps the asynq client used for durable callback delivery when Redis
// is configured.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	queueOptions := asynq.RedisClientOpt{Addr: conf.Redis.Dns}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// EnqueueCallback schedules one callback delivery task. MaxRetry is zero:
// the workers attempt delivery exactly once.
func (q *Queue) EnqueueCallback(url string, payload *model.MapperResponse) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	taskPayload, err := json.Marshal(CallbackTask{URL: url, Payload: payload})
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{
		asynq.Queue(cfg.Callback.QueueName),
		asynq.MaxRetry(0),
	}
	task := asynq.NewTask(cfg.Callback.QueueName, taskPayload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	return nil
}
