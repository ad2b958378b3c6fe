/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package common

const (
	// ok
	OK = "ok"

	// server err
	ERR_SystemErr = "system error"

	// rpc err
	ERR_RPCConnection = "failed to connect to rpc, please try again later."

	// client err
	ERR_NotFound   = "not found"
	ERR_HashLength = "invalid file key"
	ERR_EmptyHash  = "empty file key"
)
