/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package main is the screen-agent entry point.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/carverauto/adscreen/pkg/version"
)

const defaultConfigPath = "/etc/adscreen/screen-agent.json"

var (
	configPath string
	launchCode string
	tuiMode    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "screen-agent",
	Short: "Ad screen device agent",
	Long: `screen-agent runs on a display device. It pairs the device with a screen
using a connection code, then keeps the playing content in line with the
screen's schedule and remote commands.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent until interrupted",
	RunE:  runAgent,
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Print the probed device capabilities",
	RunE:  runProbe,
}

var unpairCmd = &cobra.Command{
	Use:   "unpair",
	Short: "Forget the persisted screen assignment",
	RunE:  runUnpair,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		if jsonOutput {
			_ = json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
				"version":  version.GetVersion(),
				"build_id": version.GetBuildID(),
			})

			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "screen-agent %s\n", version.GetFullVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to agent config file")

	runCmd.Flags().StringVar(&launchCode, "pair", "", "Connection code passed by the host launcher")
	runCmd.Flags().BoolVar(&tuiMode, "tui", false, "Render the device screen in the terminal")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd, probeCmd, unpairCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Fatal error: %v", err)
		os.Exit(1)
	}
}
