// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes after which ReadDirectoryChangesW cannot continue.
var fatalWatchErrnos = []syscall.Errno{
	4, // ERROR_TOO_MANY_OPEN_FILES
	6, // ERROR_INVALID_HANDLE: watched directory removed
	8, // ERROR_NOT_ENOUGH_MEMORY
}

// isFatalWatchError reports handle and memory exhaustion, and a watched
// directory whose handle went away.
func isFatalWatchError(err error) bool {
	for _, errno := range fatalWatchErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
