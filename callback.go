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
	"encoding/json"
	"io"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/openspar/mapper/config"
	"github.com/openspar/mapper/internal/request"
	"github.com/openspar/mapper/model"
)

// CallbackTask is the payload of a queued callback delivery.
type CallbackTask struct {
	URL     string                `json:"url"`
	Payload *model.MapperResponse `json:"payload"`
}

// CallbackURL picks the delivery target: the caller's sender_uri wins, the
// configured default is the fallback, and with neither delivery is skipped.
func CallbackURL(op model.Operation, senderURI, defaultURL string) string {
	url := senderURI
	if url == "" {
		url = defaultURL
	}
	if url == "" {
		return ""
	}
	return strings.TrimRight(url, "/") + op.CallbackSuffix()
}

// DeliverCallback hands the payload to the callback queue when one is wired,
// otherwise posts it directly. Either way delivery is best-effort: a single
// attempt, bounded by the configured timeout, with errors logged and
// swallowed.
func (m *Mapper) DeliverCallback(ctx context.Context, op model.Operation, senderURI string, payload *model.MapperResponse) {
	cnf, err := config.Fetch()
	if err != nil {
		logrus.Errorf("callback delivery: config not loaded: %v", err)
		return
	}

	url := CallbackURL(op, senderURI, cnf.Callback.DefaultURL)
	if url == "" {
		logrus.Infof("no callback URL for %s; skipping delivery", op)
		return
	}

	if m.queue != nil {
		if err := m.queue.EnqueueCallback(url, payload); err == nil {
			return
		} else {
			logrus.Errorf("enqueue callback failed, falling back to direct delivery: %v", err)
		}
	}

	postCallback(ctx, url, payload, time.Duration(cnf.Callback.TimeoutSec)*time.Second)
}

func postCallback(ctx context.Context, url string, payload *model.MapperResponse, timeout time.Duration) {
	resp, err := request.PostJSON(ctx, url, payload, timeout)
	if err != nil {
		logrus.Errorf("callback delivery to %s failed: %v", url, err)
		return
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logrus.Error(err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.Errorf("callback delivery to %s returned status %d", url, resp.StatusCode)
		return
	}
	log.Printf("callback delivered to %s", url)
}

// ProcessCallback handles a queued callback task from the workers. Delivery
// failures are swallowed rather than returned so asynq never retries: the
// protocol promises a single best-effort attempt.
func ProcessCallback(ctx context.Context, task *asynq.Task) error {
	cnf, err := config.Fetch()
	if err != nil {
		return err
	}

	var callback CallbackTask
	if err := json.Unmarshal(task.Payload(), &callback); err != nil {
		log.Printf("Error unmarshaling callback payload: %v", err)
		return err
	}

	postCallback(ctx, callback.URL, callback.Payload, time.Duration(cnf.Callback.TimeoutSec)*time.Second)
	return nil
}
