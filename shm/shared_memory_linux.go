// Copyright 2015 Aleksandr Demakin. All rights reserved.

package shm

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/nxgtw/shmregion/internal/common"
	"github.com/nxgtw/shmregion/security"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	maxNameLen       = 255
	defaultShmPath   = "/dev/shm/"
	cShmfsSuperMagic = 0x01021994
	cRamfsMagic      = 0x858458f6
)

var (
	shmPathOnce sync.Once
	shmPath     string
)

type mntent struct {
	fsname string /* Device or server for filesystem.  */
	dir    string /* Directory mounted on.  */
	fstype string /* Type of filesystem: ufs, nfs, etc.  */
	opts   string /* Comma-separated options for fs.  */
	freq   int    /* Dump frequency (in days).  */
	passno int    /* Pass number for `fsck'.  */
}

type memoryObject struct {
	name string
	file *os.File
}

func newMemoryObject(name string, flag int, perm os.FileMode, size int64, sa *security.Attributes) (impl *memoryObject, resultErr error) {
	path, err := shmName(name)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, flag|os.O_RDWR|unix.O_CLOEXEC, perm)
	if err != nil {
		return nil, err
	}
	if !common.IsCreateFlag(flag) {
		return &memoryObject{name: name, file: file}, nil
	}
	defer func() {
		if resultErr != nil {
			file.Close()
			os.Remove(path)
		}
	}()
	if sa != nil {
		if err = sa.Apply(file.Fd()); err != nil {
			return nil, err
		}
	}
	// a new file on tmpfs is filled with zeroes after ftruncate.
	if err = file.Truncate(size); err != nil {
		return nil, errors.Wrap(err, "failed to truncate shm object")
	}
	if err = reserveSpace(file, size); err != nil {
		return nil, err
	}
	return &memoryObject{name: name, file: file}, nil
}

// reserveSpace allocates pages for the whole object, as ftruncate on tmpfs does not,
// and touching a page, which cannot be allocated, raises SIGBUS.
// ramfs has no size limit and does not support fallocate.
func reserveSpace(file *os.File, size int64) error {
	err := unix.Fallocate(int(file.Fd()), 0, 0, size)
	switch err {
	case nil, unix.EOPNOTSUPP:
		return nil
	case unix.ENOSPC, unix.EFBIG:
		return errors.Wrapf(os.NewSyscallError("fallocate", err), "not enough space for shm object of %d bytes", size)
	}
	return errors.Wrap(os.NewSyscallError("fallocate", err), "failed to allocate shm object")
}

func (obj *memoryObject) Name() string {
	return obj.name
}

func (obj *memoryObject) Fd() uintptr {
	return obj.file.Fd()
}

func (obj *memoryObject) Size() int64 {
	fileInfo, err := obj.file.Stat()
	if err != nil {
		return 0
	}
	return fileInfo.Size()
}

func (obj *memoryObject) Close() error {
	return obj.file.Close()
}

func (obj *memoryObject) Destroy() error {
	if err := obj.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return errors.Wrap(err, "failed to close shm file")
	}
	return destroyMemoryObject(obj.name)
}

func destroyMemoryObject(name string) error {
	path, err := shmName(name)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove shm file")
	}
	return nil
}

// glibc/sysdeps/posix/shm-directory.h
func shmName(name string) (string, error) {
	name = strings.TrimLeft(name, "/")
	nameLen := len(name)
	if nameLen == 0 || nameLen >= maxNameLen || strings.Contains(name, "/") {
		return "", errors.Errorf("invalid shm name %q", name)
	}
	dir, err := shmDirectory()
	if err != nil {
		return "", errors.Wrap(err, "error building shared memory name")
	}
	return dir + name, nil
}

func shmDirectory() (string, error) {
	shmPathOnce.Do(locateShmFs)
	if len(shmPath) == 0 {
		return shmPath, errors.New("error locating the shared memory path")
	}
	return shmPath, nil
}

// glibc/sysdeps/unix/sysv/linux/shm-directory.c
func locateShmFs() {
	if checkShmPath(defaultShmPath) {
		shmPath = defaultShmPath
	} else {
		shmPath = shmFsFromMounts()
	}
}

func checkShmPath(path string) bool {
	if len(path) == 0 {
		return false
	}
	var statfs unix.Statfs_t
	if err := unix.Statfs(path, &statfs); err != nil {
		return false
	}
	return isShmFs(int64(statfs.Type))
}

func isShmFs(fsType int64) bool {
	return fsType == cShmfsSuperMagic || fsType == cRamfsMagic
}

func shmFsFromMounts() string {
	var fsFile *os.File
	var err error
	if fsFile, err = os.Open("/proc/mounts"); err != nil {
		if fsFile, err = os.Open("/etc/fstab"); err != nil {
			return ""
		}
	}
	defer fsFile.Close()
	return shmFsFromReader(fsFile)
}

func shmFsFromReader(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		record := scanMountRecord(scanner.Text())
		if record == nil || (record.fstype != "tmpfs" && record.fstype != "shm") {
			continue
		}
		result := record.dir
		if checkShmPath(result) {
			if !strings.HasSuffix(result, "/") {
				result = result + "/"
			}
			return result
		}
	}
	return ""
}

func scanMountRecord(record string) *mntent {
	fields := strings.Fields(record)
	if len(fields) < 6 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	freq, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil
	}
	passno, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil
	}
	return &mntent{
		fsname: fields[0],
		dir:    fields[1],
		fstype: fields[2],
		opts:   fields[3],
		freq:   freq,
		passno: passno,
	}
}
