/*
 * MIT License
 *
 * Copyright (c) 2026 Profile Node Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command profile-node is the process entry point: a cobra root command
// with a --config flag (defaulting under the user's home directory) and a
// run subcommand that builds the node, starts every component, and blocks
// until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/sabouaram/profile-node/config"
	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/node"
)

func defaultConfigPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".profile-node.properties"
	}
	return filepath.Join(home, ".profile-node.properties")
}

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "profile-node",
		Short: "Run a Profile Server / Home Node instance",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to the node's properties config file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Load the config, start every role listener, and block until terminated",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	log := logger.New()

	schema, v, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("profile-node: %w", err)
	}

	n, err := node.Build(schema, log)
	if err != nil {
		return fmt.Errorf("profile-node: %w", err)
	}

	ctx := context.Background()
	if err := n.InitAll(ctx); err != nil {
		return fmt.Errorf("profile-node: init: %w", err)
	}
	if err := n.StartAll(ctx); err != nil {
		return fmt.Errorf("profile-node: start: %w", err)
	}
	log.Info("profile-node: started", logger.Fields{"config": configPath, "endpoints": len(schema.Endpoints)})

	// A reload rebuilds and validates the schema so a bad edit is caught
	// and logged immediately, but does not attempt to re-home a live
	// role server onto a changed port or cert: that would mean tearing
	// down and rebuilding the whole component graph under live traffic.
	// Operators wanting a new bind address restart the process.
	config.Watch(v, func(reloaded *config.Schema, watchErr error) {
		if watchErr != nil {
			log.Warning("profile-node: config reload rejected", logger.Fields{"error": watchErr.Error()})
			return
		}
		log.Info("profile-node: config file changed; restart to apply", logger.Fields{"config": configPath})
		_ = reloaded
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("profile-node: shutting down", nil)
	return n.StopAll(ctx)
}
