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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT             = "5002"
	DEFAULT_CALLBACK_TIMEOUT = 10
	DEFAULT_WORKER_COUNT     = 4
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"MAPPER_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"MAPPER_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"MAPPER_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"MAPPER_DATA_SOURCE_DNS"`
}

// RedisConfig is optional. When a DNS is set, async callbacks are delivered
// through the asynq queue instead of a direct HTTP post.
type RedisConfig struct {
	Dns string `json:"dns" envconfig:"MAPPER_REDIS_DNS"`
}

type CallbackConfig struct {
	// DefaultURL receives callbacks when the request header carries no sender_uri.
	DefaultURL string `json:"default_url" envconfig:"MAPPER_CALLBACK_DEFAULT_URL"`
	// TimeoutSec bounds the single best-effort delivery attempt.
	TimeoutSec int    `json:"timeout_sec" envconfig:"MAPPER_CALLBACK_TIMEOUT_SEC"`
	SenderID   string `json:"sender_id" envconfig:"MAPPER_CALLBACK_SENDER_ID"`
	QueueName  string `json:"queue_name" envconfig:"MAPPER_CALLBACK_QUEUE"`
}

type DispatchConfig struct {
	WorkerCount int `json:"worker_count" envconfig:"MAPPER_DISPATCH_WORKER_COUNT"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"MAPPER_PROJECT_NAME"`
	Server      ServerConfig     `json:"server"`
	DataSource  DataSourceConfig `json:"data_source"`
	Redis       RedisConfig      `json:"redis"`
	Callback    CallbackConfig   `json:"callback"`
	Dispatch    DispatchConfig   `json:"dispatch"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("mapper", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called mapper.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "SPAR Mapper"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.Callback.DefaultURL = strings.TrimSpace(cnf.Callback.DefaultURL)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Callback.TimeoutSec <= 0 {
		cnf.Callback.TimeoutSec = DEFAULT_CALLBACK_TIMEOUT
	}

	if cnf.Callback.SenderID == "" {
		cnf.Callback.SenderID = "spar.mapper"
	}

	if cnf.Callback.QueueName == "" {
		cnf.Callback.QueueName = "mapper_callback_queue"
	}

	if cnf.Dispatch.WorkerCount <= 0 {
		cnf.Dispatch.WorkerCount = DEFAULT_WORKER_COUNT
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.applyTestDefaults()
	ConfigStore.Store(mockConfig)
}

func (cnf *Configuration) applyTestDefaults() {
	if cnf.Callback.TimeoutSec <= 0 {
		cnf.Callback.TimeoutSec = DEFAULT_CALLBACK_TIMEOUT
	}
	if cnf.Callback.SenderID == "" {
		cnf.Callback.SenderID = "spar.mapper"
	}
	if cnf.Callback.QueueName == "" {
		cnf.Callback.QueueName = "mapper_callback_queue"
	}
	if cnf.Dispatch.WorkerCount <= 0 {
		cnf.Dispatch.WorkerCount = DEFAULT_WORKER_COUNT
	}
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
