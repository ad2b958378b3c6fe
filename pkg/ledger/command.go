/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"github.com/w3f-grants-archive/storage-hub/pkg/forest"

	"github.com/pkg/errors"
)

// CommandKind tags the transaction kinds the ledger accepts.
type CommandKind uint8

const (
	CmdVolunteer CommandKind = iota
	CmdConfirmStoring
	CmdProof
	CmdRequestDeletion
	CmdStopStoring
	CmdChangeCapacity
)

// Command is the tagged union of all provider-submitted transactions.
// Exactly the fields the kind needs are set.
type Command struct {
	Kind     CommandKind
	Provider ProviderID
	FileKey  FileKey
	Tick     uint32
	Capacity uint64
	Proof    *forest.Proof
}

// CommandResult carries whatever the executed command produced.
type CommandResult struct {
	NewRoot forest.Hash
	Outcome ProofOutcome
}

// Apply dispatches one command against the state with an explicit
// match over the kind.
func (s *State) Apply(cmd Command) (CommandResult, error) {
	var res CommandResult
	switch cmd.Kind {
	case CmdVolunteer:
		return res, s.Volunteer(cmd.FileKey, cmd.Provider)
	case CmdConfirmStoring:
		newRoot, err := s.ConfirmStoring(cmd.FileKey, cmd.Provider, cmd.Proof)
		res.NewRoot = newRoot
		return res, err
	case CmdProof:
		outcome, err := s.RecordProof(&Proof{
			Provider: cmd.Provider,
			Tick:     cmd.Tick,
			Forest:   cmd.Proof,
		})
		if err != nil {
			return res, err
		}
		res.Outcome = outcome
		if p, perr := s.ProviderInfo(cmd.Provider); perr == nil {
			res.NewRoot = p.ForestRoot
		}
		return res, nil
	case CmdRequestDeletion:
		s.RequestDeletion(cmd.FileKey)
		return res, nil
	case CmdStopStoring:
		return res, s.RequestStopStoring(cmd.Provider, cmd.FileKey)
	case CmdChangeCapacity:
		return res, s.ChangeCapacity(cmd.Provider, cmd.Capacity)
	default:
		return res, errors.Errorf("unknown command kind: %d", cmd.Kind)
	}
}
