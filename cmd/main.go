/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package main

import "github.com/w3f-grants-archive/storage-hub/cmd/console"

// program entry
func main() {
	console.Execute()
}
