/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package console

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/w3f-grants-archive/storage-hub/pkg/chain"
	"github.com/w3f-grants-archive/storage-hub/pkg/out"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"

	"github.com/docker/go-units"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	stat_cmd       = "stat"
	stat_cmd_short = "Query the provider's record on the chain"
)

var statCmd = &cobra.Command{
	Use:                   stat_cmd,
	Short:                 stat_cmd_short,
	Run:                   statCmdFunc,
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(statCmd)
}

// statCmdFunc queries and prints the on-chain provider record
func statCmdFunc(cmd *cobra.Command, args []string) {
	cfg, err := buildConfigFile(cmd)
	if err != nil {
		out.Err(fmt.Sprintf("build config file: %v", err))
		os.Exit(1)
	}

	cli, err := chain.NewClient(cfg.ReadRpcEndpoints(), cfg.ReadMnemonic(), time.Duration(cfg.ReadTimeout())*time.Second)
	if err != nil {
		out.Err(err.Error())
		os.Exit(1)
	}

	info, err := cli.QueryProvider(context.Background(), cli.GetPublicKey())
	if err != nil {
		if err.Error() == chain.ERR_Empty {
			out.Err("You are not a backup storage provider")
		} else {
			out.Err(chain.ERR_RPC_CONNECTION.Error())
		}
		os.Exit(1)
	}

	owner, _ := utils.EncodePublicKeyAsAccount(info.Owner[:])
	tableRows := []table.Row{
		{"signature account", cli.GetSignatureAcc()},
		{"owner account", owner},
		{"stake", fmt.Sprintf("%d", uint64(info.Stake))},
		{"reputation", fmt.Sprintf("%d", uint32(info.Reputation))},
		{"capacity", units.BytesSize(float64(info.Capacity))},
		{"data used", units.BytesSize(float64(info.DataUsed))},
		{"forest root", utils.HashToString([32]byte(info.ForestRoot))},
		{"last tick proved", fmt.Sprintf("%d", uint32(info.LastTickProved))},
		{"sign up tick", fmt.Sprintf("%d", uint32(info.SignUpTick))},
	}
	tw := table.NewWriter()
	tw.AppendRows(tableRows)
	fmt.Println(tw.Render())
	os.Exit(0)
}
