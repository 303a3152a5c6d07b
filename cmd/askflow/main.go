// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/go-arcade/askflow/internal/engine/bootstrap"
	"github.com/go-arcade/askflow/internal/engine/config"
	_ "github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/pkg/database"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/version"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "askflow",
	Short: "askflow is a project question and answer service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := bootstrap.Bootstrap(configFile, initApp)
		if err != nil {
			return err
		}
		bootstrap.Run(app, cleanup)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		appConf, err := config.LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		if err := log.Init(&appConf.Log); err != nil {
			return err
		}
		dbConf := appConf.Database
		dbConf.AutoMigrate = true
		m, err := database.NewManager(dbConf)
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		log.Infow("database schema is up to date", "driver", dbConf.Driver)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "config file path, e.g. -c ./conf.d/config.toml")
	rootCmd.AddCommand(serveCmd, migrateCmd, version.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
