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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	mapper "github.com/openspar/mapper"
	"github.com/openspar/mapper/config"
	"github.com/openspar/mapper/database"
)

// CLI encapsulates the root cobra command of the mapper binary.
type CLI struct {
	cmd *cobra.Command
}

// mapperInstance holds the runtime engine and configuration shared by every
// subcommand.
type mapperInstance struct {
	mapper *mapper.Mapper
	cnf    *config.Configuration
}

// recoverPanic handles any panic during execution and exits with an error
// status instead of a stack trace.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the mapper engine before
// any subcommand executes.
func preRun(app *mapperInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("mapper.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newMapper, err := setupMapper(cnf)
		if err != nil {
			log.Fatal(err)
		}

		app.mapper = newMapper
		app.cnf = cnf

		return nil
	}
}

// setupMapper connects the data source and builds the engine on top of it.
func setupMapper(cfg *config.Configuration) (*mapper.Mapper, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newMapper, err := mapper.NewMapper(db)
	if err != nil {
		return nil, fmt.Errorf("error creating mapper: %v", err)
	}
	return newMapper, nil
}

// NewCLI assembles the command-line interface: the root command plus the
// server and worker subcommands.
func NewCLI() *CLI {
	var configFile string
	b := &mapperInstance{}

	var rootCmd = &cobra.Command{
		Use:   "mapper",
		Short: "G2P Connect ID to FA mapper",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./mapper.json", "Configuration file for the mapper")
	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))

	return &CLI{cmd: rootCmd}
}

func (w CLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
