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
	"context"

	"github.com/openspar/mapper/config"
	"github.com/openspar/mapper/database"
	"github.com/openspar/mapper/model"
)

// Mapper is the protocol execution engine: it owns the batch processors for
// the four operations, the async dispatch pool and callback delivery.
type Mapper struct {
	datasource database.IDataSource
	dispatcher *Dispatcher
	queue      *Queue
}

// NewMapper initializes the engine with the provided datasource. The callback
// queue is wired only when Redis is configured; otherwise delivery is a
// direct HTTP post.
func NewMapper(db database.IDataSource) (*Mapper, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	dispatcher := NewDispatcher(configuration.Dispatch.WorkerCount)
	dispatcher.Start()

	var queue *Queue
	if configuration.Redis.Dns != "" {
		queue = NewQueue(configuration)
	}

	return &Mapper{datasource: db, dispatcher: dispatcher, queue: queue}, nil
}

// GetAllMappings exposes the store listing for operational inspection.
func (m *Mapper) GetAllMappings(ctx context.Context, limit, offset int) ([]model.MappingRecord, error) {
	return m.datasource.GetAllMappings(ctx, limit, offset)
}

// Shutdown drains the dispatch pool. In-flight batches finish; callbacks for
// batches that never started are abandoned, which is acceptable loss for a
// best-effort delivery contract.
func (m *Mapper) Shutdown(ctx context.Context) error {
	return m.dispatcher.Shutdown(ctx)
}
