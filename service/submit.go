package service

import "Quickr/types"

// SubmitMachine 提交状态机: idle -> submitting -> submitted -> idle,
// 转换由定时器驱动. 非并发安全, 由 Panel 加锁访问.
type SubmitMachine struct {
	state   types.SubmissionState
	attempt uint64
	timer   Timer
	id      int64
	receipt string
}

func NewSubmitMachine() SubmitMachine {
	return SubmitMachine{state: types.SubmissionIdle}
}

func (m *SubmitMachine) State() types.SubmissionState {
	return m.state
}

// Begin idle -> submitting, 返回本次提交的 token
func (m *SubmitMachine) Begin(id int64, receipt string) (uint64, error) {
	if m.state != types.SubmissionIdle {
		return 0, ErrSubmitBusy
	}
	m.attempt++
	m.state = types.SubmissionSubmitting
	m.id = id
	m.receipt = receipt
	return m.attempt, nil
}

// Delivered submitting -> submitted
func (m *SubmitMachine) Delivered(token uint64) bool {
	if m.state != types.SubmissionSubmitting || token != m.attempt {
		return false
	}
	m.state = types.SubmissionSubmitted
	return true
}

// Failed submitting -> idle, 保留表单内容供用户手动重试
func (m *SubmitMachine) Failed(token uint64) bool {
	if m.state != types.SubmissionSubmitting || token != m.attempt {
		return false
	}
	m.state = types.SubmissionIdle
	m.id = 0
	m.receipt = ""
	return true
}

// Reset submitted -> idle
func (m *SubmitMachine) Reset(token uint64) bool {
	if m.state != types.SubmissionSubmitted || token != m.attempt {
		return false
	}
	m.state = types.SubmissionIdle
	m.id = 0
	m.receipt = ""
	return true
}

// Schedule 替换当前挂起的定时器
func (m *SubmitMachine) Schedule(t Timer) {
	m.StopTimer()
	m.timer = t
}

func (m *SubmitMachine) StopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Teardown 停掉定时器并回到 idle, 在途的回调因 token 失效而被忽略
func (m *SubmitMachine) Teardown() {
	m.StopTimer()
	m.attempt++
	m.state = types.SubmissionIdle
	m.id = 0
	m.receipt = ""
}

func (m *SubmitMachine) Snapshot() types.SubmissionSnapshot {
	return types.SubmissionSnapshot{
		State:        m.state,
		SubmissionID: m.id,
		Receipt:      m.receipt,
	}
}
