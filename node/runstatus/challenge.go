/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package runstatus

import (
	"sync"
)

type Challengest interface {
	SetLastProvedTick(tick uint32)
	SetNextDeadline(tick uint32)
	SetLastCheckpoint(tick uint32)
	SetChallenging(st bool)

	GetLastProvedTick() uint32
	GetNextDeadline() uint32
	GetLastCheckpoint() uint32
	GetChallenging() bool
}

type ChallengeSt struct {
	lock           *sync.RWMutex
	lastProvedTick uint32
	nextDeadline   uint32
	lastCheckpoint uint32
	challenging    bool
}

func NewChallengeSt() *ChallengeSt {
	return &ChallengeSt{
		lock: new(sync.RWMutex),
	}
}

func (c *ChallengeSt) SetLastProvedTick(tick uint32) {
	c.lock.Lock()
	c.lastProvedTick = tick
	c.lock.Unlock()
}

func (c *ChallengeSt) GetLastProvedTick() uint32 {
	c.lock.RLock()
	value := c.lastProvedTick
	c.lock.RUnlock()
	return value
}

func (c *ChallengeSt) SetNextDeadline(tick uint32) {
	c.lock.Lock()
	c.nextDeadline = tick
	c.lock.Unlock()
}

func (c *ChallengeSt) GetNextDeadline() uint32 {
	c.lock.RLock()
	value := c.nextDeadline
	c.lock.RUnlock()
	return value
}

func (c *ChallengeSt) SetLastCheckpoint(tick uint32) {
	c.lock.Lock()
	c.lastCheckpoint = tick
	c.lock.Unlock()
}

func (c *ChallengeSt) GetLastCheckpoint() uint32 {
	c.lock.RLock()
	value := c.lastCheckpoint
	c.lock.RUnlock()
	return value
}

func (c *ChallengeSt) SetChallenging(st bool) {
	c.lock.Lock()
	c.challenging = st
	c.lock.Unlock()
}

func (c *ChallengeSt) GetChallenging() bool {
	c.lock.RLock()
	value := c.challenging
	c.lock.RUnlock()
	return value
}
