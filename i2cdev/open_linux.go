// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package i2cdev

import (
	"fmt"
	"os"

	"github.com/warthog618/tla202x"
	"golang.org/x/sys/unix"
)

// ioctl request to bind the file to a slave address.
const i2cSlave = 0x0703

// Open opens /dev/i2c-<bus> and binds it to the device at addr.
//
// A zero addr selects tla202x.DefaultAddr.
func Open(bus int, addr uint16) (*Bus, error) {
	if addr == 0 {
		addr = tla202x.DefaultAddr
	}
	path := fmt.Sprintf("/dev/i2c-%d", bus)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: %w", err)
	}
	if err = ioctl(f.Fd(), i2cSlave, uintptr(addr)); err != nil {
		f.Close()
		return nil, fmt.Errorf("i2cdev: could not set address 0x%02x on %s: %w", addr, path, err)
	}
	return New(f), nil
}

func ioctl(fd, request, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, request, arg)
	if errno != 0 {
		return errno
	}
	return nil
}
