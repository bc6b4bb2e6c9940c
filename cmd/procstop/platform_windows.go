//go:build windows

package main

import (
	"procstop/process"
	"procstop/process_windows"
)

func nativePlatform() process.Platform {
	return process_windows.New()
}
