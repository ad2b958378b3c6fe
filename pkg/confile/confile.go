/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package confile

import (
	"fmt"
	"os"
	"path"

	"github.com/w3f-grants-archive/storage-hub/configs"
	"github.com/w3f-grants-archive/storage-hub/pkg/utils"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/mitchellh/go-homedir"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const DefaultProfile = "conf.yaml"
const TempleteProfile = `app:
  # workspace
  workspace: "/opt/hubnode"
  # status API listening port
  port: 15001
  # storage capacity committed to the network, the unit is GiB
  capacity: 1000
  # multiaddresses announced in the provider record
  multiaddrs:
    - "/ip4/127.0.0.1/tcp/30350"

chain:
  # signature account mnemonic
  mnemonic: ""
  # timeout for waiting for transaction packaging, default 30 seconds
  timeout: 30
  # rpc address list
  rpcs:
    - "ws://127.0.0.1:9944/"

submit:
  # base tip attached to the first submission attempt
  basetip: 0
  # upper bound added on top of the base tip across all retries
  maxtip: 500
  # tip escalation multiplier, must be greater than 1
  multiplier: 2.0
  # maximum number of resubmissions before giving up
  maxretries: 5`

type Confiler interface {
	Parse(fpath string) error
	ReadRpcEndpoints() []string
	ReadServicePort() uint16
	ReadWorkspace() string
	ReadMnemonic() string
	ReadCapacity() uint64
	ReadMultiaddrs() []string
	ReadTimeout() uint16
	ReadBaseTip() uint64
	ReadMaxTip() uint64
	ReadMultiplier() float64
	ReadMaxRetries() uint32
	ReadSignaturePublickey() []byte
	ReadSignatureAccount() string
}

type App struct {
	Workspace  string   `name:"workspace" toml:"workspace" yaml:"workspace"`
	Port       uint16   `name:"port" toml:"port" yaml:"port"`
	Capacity   uint64   `name:"capacity" toml:"capacity" yaml:"capacity"`
	Multiaddrs []string `name:"multiaddrs" toml:"multiaddrs" yaml:"multiaddrs"`
}

type Chain struct {
	Mnemonic string   `name:"mnemonic" toml:"mnemonic" yaml:"mnemonic"`
	Timeout  uint16   `name:"timeout" toml:"timeout" yaml:"timeout"`
	Rpcs     []string `name:"rpcs" toml:"rpcs" yaml:"rpcs"`
}

type Submit struct {
	Basetip    uint64  `name:"basetip" toml:"basetip" yaml:"basetip"`
	Maxtip     uint64  `name:"maxtip" toml:"maxtip" yaml:"maxtip"`
	Multiplier float64 `name:"multiplier" toml:"multiplier" yaml:"multiplier"`
	Maxretries uint32  `name:"maxretries" toml:"maxretries" yaml:"maxretries"`
}

type Confile struct {
	App    `yaml:"app"`
	Chain  `yaml:"chain"`
	Submit `yaml:"submit"`
}

var _ Confiler = (*Confile)(nil)

func NewConfigFile() *Confile {
	return &Confile{}
}

func (c *Confile) Parse(fpath string) error {
	fstat, err := os.Stat(fpath)
	if err != nil {
		return err
	}
	if fstat.IsDir() {
		return errors.Errorf("The '%v' is not a file", fpath)
	}
	viper.SetConfigFile(fpath)
	viper.SetConfigType(path.Ext(fpath)[1:])

	err = viper.ReadInConfig()
	if err != nil {
		return errors.Errorf("[ReadInConfig] %v", err)
	}
	err = viper.Unmarshal(c)
	if err != nil {
		return errors.Errorf("[Unmarshal] %v", err)
	}

	_, err = signature.KeyringPairFromSecret(c.Mnemonic, 0)
	if err != nil {
		return errors.Errorf("invalid mnemonic: %v", err)
	}

	if len(c.Rpcs) == 0 {
		return errors.New("cannot have empty rpc endpoints")
	}

	if c.Port < 1024 {
		return errors.Errorf("prohibit the use of system reserved port: %v", c.Port)
	}

	if len(c.Multiaddrs) == 0 {
		return errors.New("cannot have empty multiaddresses")
	}
	for _, addr := range c.Multiaddrs {
		_, err = ma.NewMultiaddr(addr)
		if err != nil {
			return errors.Errorf("invalid multiaddress '%v': %v", addr, err)
		}
	}

	if c.Multiplier <= 1 {
		return errors.Errorf("tip multiplier must be greater than 1: %v", c.Multiplier)
	}

	c.Workspace, err = homedir.Expand(c.Workspace)
	if err != nil {
		return errors.Errorf("[homedir.Expand] %v", err)
	}

	fstat, err = os.Stat(c.Workspace)
	if err != nil {
		err = os.MkdirAll(c.Workspace, configs.DirMode)
		if err != nil {
			return err
		}
	} else {
		if !fstat.IsDir() {
			return errors.Errorf("the '%v' is not a directory", c.Workspace)
		}
	}

	return nil
}

func (c *Confile) SetRpcAddr(rpc []string) {
	c.Rpcs = rpc
}

func (c *Confile) SetCapacity(capacity uint64) {
	c.Capacity = capacity
}

func (c *Confile) SetServicePort(port uint16) error {
	if port < 1024 {
		return errors.Errorf("Prohibit the use of system reserved port: %v", port)
	}
	c.Port = port
	return nil
}

func (c *Confile) SetWorkspace(workspace string) error {
	expanded, err := homedir.Expand(workspace)
	if err != nil {
		return err
	}
	fstat, err := os.Stat(expanded)
	if err != nil {
		err = os.MkdirAll(expanded, configs.DirMode)
		if err != nil {
			return err
		}
	} else {
		if !fstat.IsDir() {
			return fmt.Errorf("%s is not a directory", expanded)
		}
	}
	c.Workspace = expanded
	return nil
}

func (c *Confile) SetMnemonic(mnemonic string) error {
	_, err := signature.KeyringPairFromSecret(mnemonic, 0)
	if err != nil {
		return err
	}
	c.Mnemonic = mnemonic
	return nil
}

/////////////////////////////////////////////

func (c *Confile) ReadRpcEndpoints() []string {
	return c.Rpcs
}

func (c *Confile) ReadServicePort() uint16 {
	return c.Port
}

func (c *Confile) ReadWorkspace() string {
	return c.Workspace
}

func (c *Confile) ReadMnemonic() string {
	return c.Mnemonic
}

func (c *Confile) ReadCapacity() uint64 {
	return c.Capacity
}

func (c *Confile) ReadMultiaddrs() []string {
	return c.Multiaddrs
}

func (c *Confile) ReadTimeout() uint16 {
	if c.Timeout == 0 {
		return 30
	}
	return c.Timeout
}

func (c *Confile) ReadBaseTip() uint64 {
	return c.Basetip
}

func (c *Confile) ReadMaxTip() uint64 {
	return c.Maxtip
}

func (c *Confile) ReadMultiplier() float64 {
	return c.Multiplier
}

func (c *Confile) ReadMaxRetries() uint32 {
	return c.Maxretries
}

func (c *Confile) ReadSignaturePublickey() []byte {
	key, _ := signature.KeyringPairFromSecret(c.Mnemonic, 0)
	return key.PublicKey
}

func (c *Confile) ReadSignatureAccount() string {
	acc, _ := utils.EncodePublicKeyAsAccount(c.ReadSignaturePublickey())
	return acc
}
