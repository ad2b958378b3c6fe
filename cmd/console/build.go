/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/w3f-grants-archive/storage-hub/configs"
	"github.com/w3f-grants-archive/storage-hub/pkg/cache"
	"github.com/w3f-grants-archive/storage-hub/pkg/chain"
	"github.com/w3f-grants-archive/storage-hub/pkg/confile"
	"github.com/w3f-grants-archive/storage-hub/pkg/forest"
	"github.com/w3f-grants-archive/storage-hub/pkg/logger"
	"github.com/w3f-grants-archive/storage-hub/pkg/out"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"

	"github.com/docker/go-units"
	"github.com/howeyc/gopass"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// minMemAvailable is the least available memory the node starts with
const minMemAvailable = 512 * 1024 * 1024

// buildConfigFile parses the profile named by -c, falling back to
// conf.yaml in the working directory. When neither exists the rpc
// endpoints and mnemonic are collected interactively, so a provider
// can be started without writing a profile first.
func buildConfigFile(cmd *cobra.Command) (confile.Confiler, error) {
	conFilePath, _ := cmd.Flags().GetString("config")
	if conFilePath == "" {
		conFilePath = confile.DefaultProfile
	}

	cfg := confile.NewConfigFile()
	err := cfg.Parse(conFilePath)
	if err == nil {
		return cfg, applyFlagOverrides(cmd, cfg)
	}
	if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
		return nil, err
	}

	err = cfg.SetWorkspace(configs.DefaultWorkspace)
	if err != nil {
		return nil, err
	}
	err = cfg.SetServicePort(configs.DefaultServicePort)
	if err != nil {
		return nil, err
	}

	inputRpcEndpoints(cfg)
	err = inputMnemonic(cfg)
	if err != nil {
		return nil, err
	}
	err = applyFlagOverrides(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlagOverrides lets the root command's flags win over the
// profile's values.
func applyFlagOverrides(cmd *cobra.Command, cfg *confile.Confile) error {
	if rpcs, _ := cmd.Flags().GetStringSlice("rpc"); len(rpcs) > 0 {
		cfg.SetRpcAddr(rpcs)
	}
	if ws, _ := cmd.Flags().GetString("ws"); ws != "" {
		err := cfg.SetWorkspace(ws)
		if err != nil {
			return err
		}
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		err := cfg.SetServicePort(uint16(port))
		if err != nil {
			return err
		}
	}
	if capacity, _ := cmd.Flags().GetUint64("capacity"); capacity > 0 {
		cfg.SetCapacity(capacity)
	}
	return nil
}

func inputRpcEndpoints(cfg *confile.Confile) {
	var istips bool
	inputReader := bufio.NewReader(os.Stdin)
	for {
		if !istips {
			out.Input("Enter the rpc endpoints of the chain, multiple addresses are separated by spaces,")
			out.Input("press Enter to use [" + configs.DefaultRpcAddr + "]:")
			istips = true
		}
		lines, err := inputReader.ReadString('\n')
		if err != nil {
			out.Err(err.Error())
			time.Sleep(time.Second)
			continue
		}
		var rpcs []string
		for _, addr := range strings.Fields(lines) {
			rpcs = append(rpcs, addr)
		}
		if len(rpcs) == 0 {
			rpcs = []string{configs.DefaultRpcAddr}
		}
		cfg.SetRpcAddr(rpcs)
		return
	}
}

func inputMnemonic(cfg *confile.Confile) error {
	var istips bool
	for {
		if !istips {
			out.Input("Enter the mnemonic of the signature account:")
			istips = true
		}
		pwd, err := gopass.GetPasswdMasked()
		if err != nil {
			if err.Error() == "interrupted" || err.Error() == "interrupt" || err.Error() == "killed" {
				os.Exit(0)
			}
			out.Err("Invalid mnemonic, please check and re-enter:")
			continue
		}
		if len(pwd) == 0 {
			out.Err("The mnemonic you entered is empty, please re-enter:")
			continue
		}
		err = cfg.SetMnemonic(string(pwd))
		if err != nil {
			out.Err("Invalid mnemonic, please check and re-enter:")
			continue
		}
		return nil
	}
}

func buildDir(cfg confile.Confiler) (logDir string, dbDir string, forestDir string, err error) {
	baseDir := cfg.ReadWorkspace()

	logDir = filepath.Join(baseDir, configs.LogDir)
	err = os.MkdirAll(logDir, configs.DirMode)
	if err != nil {
		return "", "", "", err
	}
	dbDir = filepath.Join(baseDir, configs.DbDir)
	err = os.MkdirAll(dbDir, configs.DirMode)
	if err != nil {
		return "", "", "", err
	}
	forestDir = filepath.Join(baseDir, configs.ForestDir)
	err = os.MkdirAll(forestDir, configs.DirMode)
	if err != nil {
		return "", "", "", err
	}
	err = os.MkdirAll(filepath.Join(baseDir, configs.FileDir), configs.DirMode)
	if err != nil {
		return "", "", "", err
	}
	return logDir, dbDir, forestDir, nil
}

// checkResources refuses to start on a host that cannot hold the
// committed capacity or is short on memory.
func checkResources(cfg confile.Confiler) error {
	free, err := utils.GetDirFreeSpace(cfg.ReadWorkspace())
	if err != nil {
		return err
	}
	used, err := utils.DirSize(cfg.ReadWorkspace())
	if err != nil {
		return err
	}
	committed := cfg.ReadCapacity() * 1024 * 1024 * 1024
	if free+used < committed {
		return errors.Errorf("workspace has %s free for a committed capacity of %s",
			units.BytesSize(float64(free)), units.BytesSize(float64(committed)))
	}

	avail, err := utils.GetSysMemAvailable()
	if err != nil {
		return err
	}
	if avail < minMemAvailable {
		return errors.Errorf("insufficient memory: %s available, %s required",
			units.BytesSize(float64(avail)), units.BytesSize(float64(minMemAvailable)))
	}
	out.Tip(fmt.Sprintf("Workspace: %s used, %s free", units.BytesSize(float64(used)), units.BytesSize(float64(free))))
	return nil
}

func buildLogs(logDir string) (logger.Logger, error) {
	logfiles := make(map[string]string, len(configs.LogFiles))
	for _, v := range configs.LogFiles {
		logfiles[v] = filepath.Join(logDir, v+".log")
	}
	return logger.NewLogs(logfiles)
}

func buildCache(dbDir string) (cache.Cache, error) {
	return cache.NewCache(dbDir, 0, 0, configs.NameSpaces)
}

func buildForest(forestDir string) (*forest.Forest, error) {
	db, err := cache.NewCache(forestDir, 0, 0, configs.NameSpaces)
	if err != nil {
		return nil, err
	}
	return forest.NewForest(forest.NewLevelStore(db))
}

// buildChain connects to the first reachable rpc endpoint and waits
// out block synchronization before handing the client back.
func buildChain(cfg confile.Confiler, timeout time.Duration) (chain.Chainer, error) {
	cli, err := chain.NewClient(cfg.ReadRpcEndpoints(), cfg.ReadMnemonic(), timeout)
	if err != nil {
		return nil, err
	}
	for {
		syncing, err := cli.GetSyncStatus(context.Background())
		if err != nil {
			return nil, err
		}
		if !syncing {
			break
		}
		out.Tip("Syncing block data, please wait...")
		time.Sleep(configs.BlockInterval)
	}
	return cli, nil
}
