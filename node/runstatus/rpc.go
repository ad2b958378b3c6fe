/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package runstatus

import (
	"sync"
)

type Rpcst interface {
	SetCurrentRpc(rpc string)
	SetCurrentRpcst(st bool)
	SetLastConnectedTime(t string)

	GetCurrentRpc() string
	GetCurrentRpcst() bool
	GetLastConnectedTime() string
}

type RpcSt struct {
	lock              *sync.RWMutex
	currentRpc        string
	currentRpcSt      bool
	lastConnectedTime string
}

func NewRpcSt() *RpcSt {
	return &RpcSt{
		lock: new(sync.RWMutex),
	}
}

func (r *RpcSt) SetCurrentRpc(rpc string) {
	r.lock.Lock()
	r.currentRpc = rpc
	r.lock.Unlock()
}

func (r *RpcSt) GetCurrentRpc() string {
	r.lock.RLock()
	value := r.currentRpc
	r.lock.RUnlock()
	return value
}

func (r *RpcSt) SetCurrentRpcst(st bool) {
	r.lock.Lock()
	r.currentRpcSt = st
	r.lock.Unlock()
}

func (r *RpcSt) GetCurrentRpcst() bool {
	r.lock.RLock()
	value := r.currentRpcSt
	r.lock.RUnlock()
	return value
}

func (r *RpcSt) SetLastConnectedTime(t string) {
	r.lock.Lock()
	r.lastConnectedTime = t
	r.lock.Unlock()
}

func (r *RpcSt) GetLastConnectedTime() string {
	r.lock.RLock()
	value := r.lastConnectedTime
	r.lock.RUnlock()
	return value
}
