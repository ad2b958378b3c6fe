/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package runstatus

import (
	"sync"
)

type Providerst interface {
	SetSignAcc(acc string)
	SetProviderState(st string)
	SetCapacity(capacity uint64)
	SetDataUsed(used uint64)
	SetForestRoot(root string)
	SetFileCount(count int)

	GetSignAcc() string
	GetProviderState() string
	GetCapacity() uint64
	GetDataUsed() uint64
	GetForestRoot() string
	GetFileCount() int
}

type ProviderSt struct {
	lock          *sync.RWMutex
	signAcc       string
	providerState string
	capacity      uint64
	dataUsed      uint64
	forestRoot    string
	fileCount     int
}

func NewProviderSt() *ProviderSt {
	return &ProviderSt{
		lock: new(sync.RWMutex),
	}
}

func (p *ProviderSt) SetSignAcc(acc string) {
	p.lock.Lock()
	p.signAcc = acc
	p.lock.Unlock()
}

func (p *ProviderSt) GetSignAcc() string {
	p.lock.RLock()
	value := p.signAcc
	p.lock.RUnlock()
	return value
}

func (p *ProviderSt) SetProviderState(st string) {
	p.lock.Lock()
	p.providerState = st
	p.lock.Unlock()
}

func (p *ProviderSt) GetProviderState() string {
	p.lock.RLock()
	value := p.providerState
	p.lock.RUnlock()
	return value
}

func (p *ProviderSt) SetCapacity(capacity uint64) {
	p.lock.Lock()
	p.capacity = capacity
	p.lock.Unlock()
}

func (p *ProviderSt) GetCapacity() uint64 {
	p.lock.RLock()
	value := p.capacity
	p.lock.RUnlock()
	return value
}

func (p *ProviderSt) SetDataUsed(used uint64) {
	p.lock.Lock()
	p.dataUsed = used
	p.lock.Unlock()
}

func (p *ProviderSt) GetDataUsed() uint64 {
	p.lock.RLock()
	value := p.dataUsed
	p.lock.RUnlock()
	return value
}

func (p *ProviderSt) SetForestRoot(root string) {
	p.lock.Lock()
	p.forestRoot = root
	p.lock.Unlock()
}

func (p *ProviderSt) GetForestRoot() string {
	p.lock.RLock()
	value := p.forestRoot
	p.lock.RUnlock()
	return value
}

func (p *ProviderSt) SetFileCount(count int) {
	p.lock.Lock()
	p.fileCount = count
	p.lock.Unlock()
}

func (p *ProviderSt) GetFileCount() int {
	p.lock.RLock()
	value := p.fileCount
	p.lock.RUnlock()
	return value
}
