// Package pidfile guards a service instance with an exclusively created
// file containing its process id.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type PIDFile struct {
	path string
	file *os.File
}

// New returns a pid file for path. An empty path disables it.
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

func (f *PIDFile) Path() string {
	return f.path
}

func (f *PIDFile) Acquire() error {
	if f.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create pid file directory %q", filepath.Dir(f.path))
	}

	for {
		file, err := os.OpenFile(f.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if os.IsExist(err) {
			if err := f.removeIfStale(); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "failed to open pid file %q", f.path)
		}

		if _, err := fmt.Fprintf(file, "%d", os.Getpid()); err != nil {
			_ = file.Close()
			_ = os.Remove(f.path)
			return errors.Wrapf(err, "failed to write pid to pid file %q", f.path)
		}

		f.file = file
		log.WithFields(log.Fields{"kind": "pidfile", "path": f.path, "pid": os.Getpid()}).Info("acquired pid file")
		return nil
	}
}

// removeIfStale removes the pid file if the process it names is gone.
func (f *PIDFile) removeIfStale() error {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return errors.Wrapf(err, "failed to read pid file %q", f.path)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return errors.Wrapf(err, "failed to parse pid file %q", f.path)
	}

	if pid > 0 && processAlive(pid) {
		return fmt.Errorf("pid file %q already exists and contains the PID of a running process", f.path)
	}

	log.WithFields(log.Fields{"kind": "pidfile", "path": f.path, "pid": pid}).Info("pid file names a process that is not running; removing it")

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove pid file %q", f.path)
	}
	return nil
}

func (f *PIDFile) Release() error {
	if f.path == "" || f.file == nil {
		return nil
	}

	if err := f.file.Close(); err != nil {
		return errors.Wrapf(err, "failed to close pid file %q", f.path)
	}
	f.file = nil

	if err := os.Remove(f.path); err != nil {
		return errors.Wrapf(err, "failed to remove pid file %q", f.path)
	}

	log.WithFields(log.Fields{"kind": "pidfile", "path": f.path}).Info("released pid file")
	return nil
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
