/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package console

import (
	"fmt"
	"os"

	"github.com/w3f-grants-archive/storage-hub/configs"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   configs.Name,
	Short: configs.Description,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	err := rootCmd.Execute()
	if err != nil {
		fmt.Printf("\x1b[%dm[err]\x1b[0m %v\n", 41, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "custom configuration file")
	rootCmd.PersistentFlags().StringSliceP("rpc", "", nil, "rpc endpoint list")
	rootCmd.PersistentFlags().StringP("ws", "", "", "workspace")
	rootCmd.PersistentFlags().IntP("port", "", 0, "listening port")
	rootCmd.PersistentFlags().Uint64P("capacity", "", 0, "storage capacity committed to the network (GiB)")
}
