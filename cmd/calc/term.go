//go:build linux

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

var termRestore *unix.Termios

// enterRawTerm switches stdin to raw mode so keystrokes arrive unbuffered
// and unechoed. exitRawTerm must run before the process exits.
func enterRawTerm() error {
	termios, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), unix.TCGETS)
	if err != nil {
		return err
	}

	saved := *termios
	termRestore = &saved

	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN | unix.ISIG

	// Block until one byte is available.
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, termios)
}

func exitRawTerm() {
	if termRestore == nil {
		return
	}
	_ = unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, termRestore)
}
