// Package library stores motions as files of single directory
package library

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/keymotion/codec"
	"github.com/mogaika/keymotion/motion"
)

const Extension = ".motion"

// Library caches loaded motions.
// Returned motions are shared between readers and must not be modified,
// use Update to change motion.
type Library struct {
	path    string
	order   binary.ByteOrder
	version uint32

	lock  sync.RWMutex
	cache map[string]*motion.Motion
	// serializes Update calls
	updateLock sync.Mutex
}

func Open(path string, order binary.ByteOrder) (*Library, error) {
	s, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open library")
	}
	if !s.IsDir() {
		return nil, errors.Errorf("Library path %q is not a directory", path)
	}
	return &Library{
		path:    path,
		order:   order,
		version: codec.CurrentVersion,
		cache:   make(map[string]*motion.Motion),
	}, nil
}

func (l *Library) Path() string {
	return l.path
}

func (l *Library) ByteOrder() binary.ByteOrder {
	return l.order
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return errors.Errorf("Invalid motion name %q", name)
	}
	return nil
}

func (l *Library) filePath(name string) string {
	return filepath.Join(l.path, name+Extension)
}

// List returns sorted names of motions, without extension
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to list %q", l.path)
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), Extension) {
			result = append(result, strings.TrimSuffix(e.Name(), Extension))
		}
	}
	sort.Strings(result)
	return result, nil
}

func (l *Library) load(name string) (*motion.Motion, error) {
	f, err := os.Open(l.filePath(name))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open motion %q", name)
	}
	defer f.Close()

	m, err := codec.Read(f, l.order, l.version)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read motion %q", name)
	}
	if err := m.Verify(); err != nil {
		logrus.WithField("motion", name).Warnf("[library] %v", err)
	}
	return m, nil
}

// Get returns cached motion, reading it from disk on first access
func (l *Library) Get(name string) (*motion.Motion, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	l.lock.RLock()
	m, ok := l.cache[name]
	l.lock.RUnlock()
	if ok {
		return m, nil
	}

	m, err := l.load(name)
	if err != nil {
		return nil, err
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	if cached, ok := l.cache[name]; ok {
		return cached, nil
	}
	l.cache[name] = m
	return m, nil
}

func (l *Library) store(name string, m *motion.Motion) error {
	var buf bytes.Buffer
	if err := codec.WriteVersion(&buf, m, l.order, l.version); err != nil {
		return errors.Wrapf(err, "Failed to encode motion %q", name)
	}

	tmp, err := os.CreateTemp(l.path, "."+name+"-*")
	if err != nil {
		return errors.Wrapf(err, "Failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "Failed to write motion %q", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "Failed to close motion %q", name)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), l.filePath(name)), "Failed to replace motion %q", name)
}

// Put writes motion to disk and replaces cached one.
// Library takes ownership of m.
func (l *Library) Put(name string, m *motion.Motion) error {
	if err := checkName(name); err != nil {
		return err
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	if err := l.store(name, m); err != nil {
		return err
	}
	l.cache[name] = m
	return nil
}

// Update applies fn to copy of motion and stores result.
// Readers holding previous motion are not affected.
func (l *Library) Update(name string, fn func(m *motion.Motion) error) (*motion.Motion, error) {
	l.updateLock.Lock()
	defer l.updateLock.Unlock()

	current, err := l.Get(name)
	if err != nil {
		return nil, err
	}

	m := current.Clone()
	if err := fn(m); err != nil {
		return nil, err
	}
	if err := l.Put(name, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (l *Library) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	delete(l.cache, name)
	return errors.Wrapf(os.Remove(l.filePath(name)), "Failed to remove motion %q", name)
}
