// Hand-written test double in the shape mockgen generates, for the
// TaskRunner interface declared in this file.

package workerpool

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
)

// TaskRunner is the interface a submitted Task closure delegates to in
// tests, so a worker's invocation of that closure can be asserted against
// a mock expectation rather than a hand-rolled counter.
type TaskRunner interface {
	Run(state interface{}) error
}

// MockTaskRunner is a mock of TaskRunner interface.
type MockTaskRunner struct {
	ctrl     *gomock.Controller
	recorder *MockTaskRunnerMockRecorder
}

// MockTaskRunnerMockRecorder is the mock recorder for MockTaskRunner.
type MockTaskRunnerMockRecorder struct {
	mock *MockTaskRunner
}

// NewMockTaskRunner creates a new mock instance.
func NewMockTaskRunner(ctrl *gomock.Controller) *MockTaskRunner {
	mock := &MockTaskRunner{ctrl: ctrl}
	mock.recorder = &MockTaskRunnerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTaskRunner) EXPECT() *MockTaskRunnerMockRecorder {
	return m.recorder
}

// Run mocks base method.
func (m *MockTaskRunner) Run(state interface{}) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Run", state)
	ret0, _ := ret[0].(error)
	return ret0
}

// Run indicates an expected call of Run.
func (mr *MockTaskRunnerMockRecorder) Run(state interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Run", reflect.TypeOf((*MockTaskRunner)(nil).Run), state)
}
