/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package runstatus

import (
	"sync"
)

type Submitst interface {
	IncSubmitted()
	IncIncluded()
	IncFailed()
	SetInflightCount(count int)

	GetSubmitted() uint64
	GetIncluded() uint64
	GetFailed() uint64
	GetInflightCount() int
}

type SubmitSt struct {
	lock          *sync.RWMutex
	submitted     uint64
	included      uint64
	failed        uint64
	inflightCount int
}

func NewSubmitSt() *SubmitSt {
	return &SubmitSt{
		lock: new(sync.RWMutex),
	}
}

func (s *SubmitSt) IncSubmitted() {
	s.lock.Lock()
	s.submitted++
	s.lock.Unlock()
}

func (s *SubmitSt) GetSubmitted() uint64 {
	s.lock.RLock()
	value := s.submitted
	s.lock.RUnlock()
	return value
}

func (s *SubmitSt) IncIncluded() {
	s.lock.Lock()
	s.included++
	s.lock.Unlock()
}

func (s *SubmitSt) GetIncluded() uint64 {
	s.lock.RLock()
	value := s.included
	s.lock.RUnlock()
	return value
}

func (s *SubmitSt) IncFailed() {
	s.lock.Lock()
	s.failed++
	s.lock.Unlock()
}

func (s *SubmitSt) GetFailed() uint64 {
	s.lock.RLock()
	value := s.failed
	s.lock.RUnlock()
	return value
}

func (s *SubmitSt) SetInflightCount(count int) {
	s.lock.Lock()
	s.inflightCount = count
	s.lock.Unlock()
}

func (s *SubmitSt) GetInflightCount() int {
	s.lock.RLock()
	value := s.inflightCount
	s.lock.RUnlock()
	return value
}
