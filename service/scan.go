package service

import "Quickr/types"

// ScanMachine 模拟扫码状态机: idle -> camera-active -> result-available.
// 不做任何画面采集或解码. 非并发安全, 由 Panel 加锁访问.
type ScanMachine struct {
	state   types.ScanState
	pending bool
	attempt uint64
	stream  Stream
	result  string
}

func NewScanMachine() ScanMachine {
	return ScanMachine{state: types.ScanIdle}
}

func (m *ScanMachine) State() types.ScanState {
	return m.state
}

// BeginStart 标记一次开启请求正在等待摄像头, 返回本次请求的 token
func (m *ScanMachine) BeginStart() (uint64, error) {
	if m.state != types.ScanIdle || m.pending {
		return 0, ErrScanTransition
	}
	m.attempt++
	m.pending = true
	return m.attempt, nil
}

// CompleteStart 摄像头就绪. 请求已被 Stop/Teardown 取代时释放 s 并拒绝.
func (m *ScanMachine) CompleteStart(token uint64, s Stream) error {
	if !m.pending || token != m.attempt {
		s.Release()
		return ErrScanTransition
	}
	m.pending = false
	m.stream = s
	m.state = types.ScanCameraActive
	return nil
}

// FailStart 摄像头被拒绝或获取失败, 回到 idle
func (m *ScanMachine) FailStart(token uint64) {
	if m.pending && token == m.attempt {
		m.pending = false
		m.state = types.ScanIdle
	}
}

// Simulate 忽略画面, 固定返回演示内容并释放摄像头
func (m *ScanMachine) Simulate() (string, error) {
	if m.state != types.ScanCameraActive {
		return "", ErrScanTransition
	}
	m.releaseStream()
	m.result = types.DemoScanResult
	m.state = types.ScanResultAvailable
	return m.result, nil
}

// Stop 关闭摄像头, 不产生结果. 也会取消尚未完成的开启请求.
func (m *ScanMachine) Stop() error {
	switch {
	case m.state == types.ScanCameraActive:
		m.releaseStream()
		m.state = types.ScanIdle
		return nil
	case m.pending:
		m.pending = false
		return nil
	}
	return ErrScanTransition
}

func (m *ScanMachine) Clear() error {
	if m.state != types.ScanResultAvailable {
		return ErrScanTransition
	}
	m.result = ""
	m.state = types.ScanIdle
	return nil
}

// Teardown 面板销毁时调用, 任何状态都回到 idle 并释放摄像头
func (m *ScanMachine) Teardown() {
	m.releaseStream()
	m.pending = false
	m.result = ""
	m.state = types.ScanIdle
}

func (m *ScanMachine) Snapshot() types.ScanSnapshot {
	snap := types.ScanSnapshot{
		State:   m.state,
		Pending: m.pending,
		Result:  m.result,
	}
	if m.stream != nil {
		snap.Facing = m.stream.Facing()
	}
	return snap
}

func (m *ScanMachine) releaseStream() {
	if m.stream != nil {
		m.stream.Release()
		m.stream = nil
	}
}
