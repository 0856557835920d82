package cache

import (
	"errors"
	"fmt"
	"os"
)

// errNotMocked is returned when a testSystem method is called without a mock function set.
var errNotMocked = errors.New("testSystem: method not mocked")

// testSystem provides a mock System for unit tests.
//
// Getenv, ReadFile, MkdirAll, WriteFile, and RemoveAll fall back to
// RealSystem so tests can use t.TempDir() fixtures and t.Setenv() without
// mocking every call. UserConfigDir and HomeDir fail fast because resolution
// must never touch the real user profile in tests.
type testSystem struct {
	RealSystem

	GetenvFunc        func(key string) string
	ReadFileFunc      func(name string) ([]byte, error)
	UserConfigDirFunc func() (string, error)
	HomeDirFunc       func() (string, error)
	MkdirAllFunc      func(path string, perm os.FileMode) error
	WriteFileFunc     func(name string, data []byte, perm os.FileMode) error
	RemoveAllFunc     func(path string) error
}

func (s *testSystem) Getenv(key string) string {
	if s.GetenvFunc != nil {
		return s.GetenvFunc(key)
	}
	return s.RealSystem.Getenv(key)
}

func (s *testSystem) ReadFile(name string) ([]byte, error) {
	if s.ReadFileFunc != nil {
		return s.ReadFileFunc(name)
	}
	return s.RealSystem.ReadFile(name)
}

func (s *testSystem) UserConfigDir() (string, error) {
	if s.UserConfigDirFunc != nil {
		return s.UserConfigDirFunc()
	}
	return "", fmt.Errorf("%w: UserConfigDir", errNotMocked)
}

func (s *testSystem) HomeDir() (string, error) {
	if s.HomeDirFunc != nil {
		return s.HomeDirFunc()
	}
	return "", fmt.Errorf("%w: HomeDir", errNotMocked)
}

func (s *testSystem) MkdirAll(path string, perm os.FileMode) error {
	if s.MkdirAllFunc != nil {
		return s.MkdirAllFunc(path, perm)
	}
	return s.RealSystem.MkdirAll(path, perm)
}

func (s *testSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if s.WriteFileFunc != nil {
		return s.WriteFileFunc(name, data, perm)
	}
	return s.RealSystem.WriteFile(name, data, perm)
}

func (s *testSystem) RemoveAll(path string) error {
	if s.RemoveAllFunc != nil {
		return s.RemoveAllFunc(path)
	}
	return s.RealSystem.RemoveAll(path)
}
