package service

import (
	"Quickr/types"
	"context"
	"errors"
	"testing"
	"time"
)

type countStream struct {
	released int
}

func (s *countStream) Facing() string { return types.FacingEnvironment }
func (s *countStream) Release()       { s.released++ }

func TestScanMachineStaleStart(t *testing.T) {
	m := NewScanMachine()

	token, err := m.BeginStart()
	if err != nil {
		t.Fatalf("BeginStart() error = %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop() pending error = %v", err)
	}

	s := &countStream{}
	if err := m.CompleteStart(token, s); !errors.Is(err, ErrScanTransition) {
		t.Fatalf("CompleteStart() after stop error = %v", err)
	}
	if s.released != 1 || m.State() != types.ScanIdle {
		t.Fatalf("stale stream released %d times, state %s", s.released, m.State())
	}
}

func TestScanMachineReleaseOnce(t *testing.T) {
	m := NewScanMachine()
	token, _ := m.BeginStart()
	s := &countStream{}
	if err := m.CompleteStart(token, s); err != nil {
		t.Fatalf("CompleteStart() error = %v", err)
	}
	if _, err := m.Simulate(); err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	m.Teardown()
	if s.released != 1 {
		t.Fatalf("released %d times, want 1", s.released)
	}
}

func TestScanMachineFailStart(t *testing.T) {
	m := NewScanMachine()
	token, _ := m.BeginStart()
	m.FailStart(token)
	if m.State() != types.ScanIdle || m.Snapshot().Pending {
		t.Fatalf("snapshot = %+v", m.Snapshot())
	}
	if _, err := m.BeginStart(); err != nil {
		t.Fatalf("BeginStart() after failure error = %v", err)
	}
}

func TestLeaseCamera(t *testing.T) {
	c := NewLeaseCamera(1, 20*time.Millisecond, false)
	granted := types.CameraReq{Permission: types.PermissionGranted}

	s, err := c.Acquire(context.Background(), granted)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if _, err := c.Acquire(context.Background(), granted); !errors.Is(err, ErrCameraUnavailable) {
		t.Fatalf("Acquire() on full pool error = %v", err)
	}

	s.Release()
	s.Release()
	if c.Active() != 0 {
		t.Fatalf("Active() = %d after double release", c.Active())
	}
	s2, err := c.Acquire(context.Background(), granted)
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	s2.Release()
}

func TestLeaseCameraDenied(t *testing.T) {
	tests := []struct {
		name   string
		camera *LeaseCamera
		req    types.CameraReq
	}{
		{"browser denied", NewLeaseCamera(1, 0, false), types.CameraReq{Permission: types.PermissionDenied}},
		{"no permission reported", NewLeaseCamera(1, 0, false), types.CameraReq{}},
		{"disabled", NewLeaseCamera(1, 0, true), types.CameraReq{Permission: types.PermissionGranted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.camera.Acquire(context.Background(), tt.req); !errors.Is(err, ErrCameraDenied) {
				t.Fatalf("Acquire() error = %v, want ErrCameraDenied", err)
			}
			if tt.camera.Active() != 0 {
				t.Fatalf("denied acquire leaked a stream")
			}
		})
	}
}
