package file

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential hints the kernel to read ahead aggressively on f.
func adviseSequential(f *os.File) error {
	fd := int(f.Fd())
	if err := unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL); err != nil {
		return err
	}
	return unix.Fadvise(fd, 0, 0, unix.FADV_WILLNEED)
}
