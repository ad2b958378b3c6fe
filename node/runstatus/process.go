/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package runstatus

import (
	"sync"
)

type Processst interface {
	SetPID(pid int)
	SetCpucores(num int)
	SetComAddr(addr string)

	GetPID() int
	GetCpucores() int
	GetComAddr() string
}

type ProcessSt struct {
	lock     *sync.RWMutex
	pid      int
	cpucores int
	comAddr  string
}

func NewProcessSt() *ProcessSt {
	return &ProcessSt{
		lock: new(sync.RWMutex),
	}
}

func (p *ProcessSt) SetPID(pid int) {
	p.lock.Lock()
	p.pid = pid
	p.lock.Unlock()
}

func (p *ProcessSt) GetPID() int {
	p.lock.RLock()
	value := p.pid
	p.lock.RUnlock()
	return value
}

func (p *ProcessSt) SetCpucores(num int) {
	p.lock.Lock()
	p.cpucores = num
	p.lock.Unlock()
}

func (p *ProcessSt) GetCpucores() int {
	p.lock.RLock()
	value := p.cpucores
	p.lock.RUnlock()
	return value
}

func (p *ProcessSt) SetComAddr(addr string) {
	p.lock.Lock()
	p.comAddr = addr
	p.lock.Unlock()
}

func (p *ProcessSt) GetComAddr() string {
	p.lock.RLock()
	value := p.comAddr
	p.lock.RUnlock()
	return value
}
