//go:build !linux && !windows

package main

import (
	"procstop/process"
	"procstop/process_gopsutil"
)

func nativePlatform() process.Platform {
	return process_gopsutil.New()
}
