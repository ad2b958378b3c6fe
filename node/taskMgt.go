/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

func (n *Node) TaskMgt() {
	var (
		ch_chainMgt     = make(chan bool, 1)
		ch_volunteerMgt = make(chan bool, 1)
		ch_confirmMgt   = make(chan bool, 1)
		ch_challengeMgt = make(chan bool, 1)
		ch_deletionMgt  = make(chan bool, 1)
	)

	go n.chainMgt(ch_chainMgt)
	go n.volunteerMgt(ch_volunteerMgt)
	go n.confirmMgt(ch_confirmMgt)
	go n.challengeMgt(ch_challengeMgt)
	go n.deletionMgt(ch_deletionMgt)

	for {
		select {
		case <-ch_chainMgt:
			go n.chainMgt(ch_chainMgt)
		case <-ch_volunteerMgt:
			go n.volunteerMgt(ch_volunteerMgt)
		case <-ch_confirmMgt:
			go n.confirmMgt(ch_confirmMgt)
		case <-ch_challengeMgt:
			go n.challengeMgt(ch_challengeMgt)
		case <-ch_deletionMgt:
			go n.deletionMgt(ch_deletionMgt)
		}
	}
}
