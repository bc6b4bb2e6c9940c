//go:build linux

package main

import (
	"procstop/process"
	"procstop/process_linux"
)

func nativePlatform() process.Platform {
	return process_linux.New()
}
