package error_reporting

import "sync"

// TestErrorReporter records captured errors instead of forwarding them.
type TestErrorReporter struct {
	mutex  sync.Mutex
	errors []error
}

var _ ErrorReporter = &TestErrorReporter{}

func NewTestErrorReporter() *TestErrorReporter {
	return &TestErrorReporter{}
}

func (s *TestErrorReporter) FlushErrorReporting() {}

func (s *TestErrorReporter) CaptureError(err error) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.errors = append(s.errors, err)
	return true
}

func (s *TestErrorReporter) CapturedErrors() []error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]error{}, s.errors...)
}
