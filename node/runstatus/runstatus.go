/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package runstatus

type Runstatus interface {
	Rpcst
	Processst
	Providerst
	Challengest
	Submitst
}

type runstatus struct {
	*RpcSt
	*ProcessSt
	*ProviderSt
	*ChallengeSt
	*SubmitSt
}

var _ Runstatus = (*runstatus)(nil)

func NewRunstatus() Runstatus {
	return &runstatus{
		RpcSt:       NewRpcSt(),
		ProcessSt:   NewProcessSt(),
		ProviderSt:  NewProviderSt(),
		ChallengeSt: NewChallengeSt(),
		SubmitSt:    NewSubmitSt(),
	}
}
