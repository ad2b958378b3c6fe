/*
	Copyright (C) StorageHub authors. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

// Package out prints the console's colored status lines.
package out

import (
	"fmt"
	"time"
)

// high-intensity ANSI foreground codes
const (
	fgRed   = 91
	fgGreen = 92
	fgBlue  = 94
)

const stampFormat = "2006-01-02 15:04:05"

// Input prompts the operator for typed input.
func Input(msg string) {
	fmt.Println(prompt(fgBlue, ">>"), msg)
}

func Ok(msg string) {
	fmt.Println(prompt(fgGreen, "OK"), stamp(msg))
}

func Tip(msg string) {
	fmt.Println(prompt(fgGreen, "++"), stamp(msg))
}

func Err(msg string) {
	fmt.Println(prompt(fgRed, "XX"), stamp(msg))
}

func prompt(color int, tag string) string {
	return fmt.Sprintf("\x1b[0;%dm%s\x1b[0m", color, tag)
}

func stamp(msg string) string {
	return time.Now().Format(stampFormat) + " " + msg
}
