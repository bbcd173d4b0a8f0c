// Copyright the rcu authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package membarrier

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Command values from linux/membarrier.h. golang.org/x/sys/unix does not
// export these (membarrier(2) has no high-level wrapper there), so they
// are declared here exactly as utils.h's MEMBARRIER_CMD_* would be.
const (
	membarrierCmdRegisterPrivateExpedited = 16
	membarrierCmdPrivateExpedited         = 8
)

type linuxFacility struct {
	registerOnce sync.Once
	registerErr  error
}

var defaultFacility Facility = &linuxFacility{}

func (f *linuxFacility) RegisterReader() error {
	f.registerOnce.Do(func() {
		_, _, errno := unix.Syscall(unix.SYS_MEMBARRIER, membarrierCmdRegisterPrivateExpedited, 0, 0)
		if errno != 0 && !benignRegisterErrno(errno) {
			f.registerErr = fmt.Errorf("membarrier: register_private_expedited: %w", errno)
		}
	})
	return f.registerErr
}

func (f *linuxFacility) Master() {
	_, _, errno := unix.Syscall(unix.SYS_MEMBARRIER, membarrierCmdPrivateExpedited, 0, 0)
	if errno != 0 && !benignMasterErrno(errno) {
		panic(&FatalError{Op: "membarrier(MEMBARRIER_CMD_PRIVATE_EXPEDITED)", Err: errno})
	}
}

// benignRegisterErrno reports whether a failure to register is one the
// protocol tolerates: an older kernel without membarrier(2) support simply
// means the process degrades to best-effort ordering, the same posture the
// non-Linux fallback takes deliberately.
func benignRegisterErrno(errno unix.Errno) bool {
	return errno == unix.ENOSYS || errno == unix.EINVAL
}

// benignMasterErrno: ENOSYS (kernel lacks membarrier) and EINVAL (kernel
// lacks the private expedited command) are tolerated, the same two codes
// registration tolerates; anything else is fatal.
func benignMasterErrno(errno unix.Errno) bool {
	return errno == unix.ENOSYS || errno == unix.EINVAL
}
