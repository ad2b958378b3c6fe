/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package configs

import "time"

const (
	// Name is the name of the program
	Name = "hubnode"
	// version
	Version = "v0.4.1 dev"
	// Description is the description of the program
	Description = "Backup storage provider implementation for the StorageHub network"
	// NameSpace is the cached namespace
	NameSpaces = Name
)

const (
	// DirMode is the mode bits for workspace directories
	DirMode = 0755
	// FileMode is the mode bits for workspace files
	FileMode = 0666
)

const (
	// DefaultRpcAddr is the rpc endpoint used when none is configured
	DefaultRpcAddr = "ws://127.0.0.1:9944/"
	// DefaultConfigFile is the profile looked up when -c is not given
	DefaultConfigFile = "conf.yaml"
	// DefaultWorkspace is the root directory of all node data
	DefaultWorkspace = "/opt/hubnode"
	// DefaultServicePort is the status API listening port
	DefaultServicePort = 15001
)

// BlockInterval is the block production interval of the chain
const BlockInterval = time.Second * time.Duration(6)

// TimeToWaitTransaction is how long a submitted transaction is watched
// for inclusion before the attempt counts as timed out.
const TimeToWaitTransaction = time.Duration(time.Second * 30)

const (
	// LogDir is the directory of all log files in the workspace
	LogDir = "log"
	// DbDir is the directory of the leveldb instance in the workspace
	DbDir = "db"
	// ForestDir is the directory of the forest trie store in the workspace
	ForestDir = "forest"
	// FileDir is the directory of file fragments in the workspace
	FileDir = "file"
)

// LogFiles are the log channels written by the provider node
var LogFiles = []string{
	"log",
	"panic",
	"chain",
	"challenge",
	"forest",
	"volunteer",
	"submit",
	"deletion",
}
