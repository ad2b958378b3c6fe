/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package console

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/w3f-grants-archive/storage-hub/node"
	"github.com/w3f-grants-archive/storage-hub/node/runstatus"
	"github.com/w3f-grants-archive/storage-hub/pkg/chain"
	"github.com/w3f-grants-archive/storage-hub/pkg/out"
	"github.com/w3f-grants-archive/storage-hub/pkg/submitter"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"

	"github.com/spf13/cobra"
)

const (
	run_cmd       = "run"
	run_cmd_short = "Run the provider service through a configuration file"
)

var runCmd = &cobra.Command{
	Use:                   run_cmd,
	Short:                 run_cmd_short,
	Run:                   runCmdFunc,
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runCmdFunc runs the provider service
func runCmdFunc(cmd *cobra.Command, args []string) {
	cfg, err := buildConfigFile(cmd)
	if err != nil {
		out.Err(fmt.Sprintf("build config file: %v", err))
		os.Exit(1)
	}

	logDir, dbDir, forestDir, err := buildDir(cfg)
	if err != nil {
		out.Err(fmt.Sprintf("build workspace: %v", err))
		os.Exit(1)
	}

	err = checkResources(cfg)
	if err != nil {
		out.Err(err.Error())
		os.Exit(1)
	}

	lg, err := buildLogs(logDir)
	if err != nil {
		out.Err(fmt.Sprintf("build logs: %v", err))
		os.Exit(1)
	}

	cach, err := buildCache(dbDir)
	if err != nil {
		out.Err(fmt.Sprintf("build cache: %v", err))
		os.Exit(1)
	}

	f, err := buildForest(forestDir)
	if err != nil {
		out.Err(fmt.Sprintf("build forest: %v", err))
		os.Exit(1)
	}

	timeout := time.Duration(cfg.ReadTimeout()) * time.Second
	cli, err := buildChain(cfg, timeout)
	if err != nil {
		out.Err(fmt.Sprintf("build chain client: %v", err))
		os.Exit(1)
	}
	out.Ok(fmt.Sprintf("Signature account: %s", cli.GetSignatureAcc()))

	info, err := cli.QueryProvider(context.Background(), cli.GetPublicKey())
	if err != nil {
		if err.Error() == chain.ERR_Empty {
			out.Err("The signature account is not registered as a backup storage provider")
		} else {
			out.Err(err.Error())
		}
		os.Exit(1)
	}

	sub, err := submitter.NewSubmitter(cli, submitter.Strategy{
		MaxRetries: cfg.ReadMaxRetries(),
		Timeout:    timeout,
		BaseTip:    cfg.ReadBaseTip(),
		MaxTip:     cfg.ReadMaxTip(),
		Multiplier: cfg.ReadMultiplier(),
	}, submitter.DefaultWorkers)
	if err != nil {
		out.Err(fmt.Sprintf("build submitter: %v", err))
		os.Exit(1)
	}

	rs := runstatus.NewRunstatus()
	rs.SetPID(os.Getpid())
	rs.SetCpucores(runtime.NumCPU())
	rs.SetSignAcc(cli.GetSignatureAcc())
	rs.SetCapacity(uint64(info.Capacity))
	rs.SetDataUsed(uint64(info.DataUsed))
	rs.SetForestRoot(utils.HashToString(f.Root()))
	addrs := cfg.ReadMultiaddrs()
	if len(addrs) > 0 {
		rs.SetComAddr(addrs[0])
	}
	rpcs := cfg.ReadRpcEndpoints()
	if len(rpcs) > 0 {
		rs.SetCurrentRpc(rpcs[0])
	}

	node.New(cfg, lg, cach, cli, rs, f, sub).Run()
}
