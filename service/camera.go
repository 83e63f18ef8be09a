package service

import (
	"Quickr/config"
	"Quickr/types"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// Stream 一次摄像头占用, Release 可以重复调用但只生效一次
type Stream interface {
	Facing() string
	Release()
}

type Camera interface {
	// Acquire 可能阻塞到有空闲配额或 ctx 结束
	Acquire(ctx context.Context, req types.CameraReq) (Stream, error)
}

var _ Camera = (*LeaseCamera)(nil)

// LeaseCamera 以信号量限制同时打开的视频流数量
type LeaseCamera struct {
	sem      *semaphore.Weighted
	disabled bool
	timeout  time.Duration
	active   atomic.Int64
}

func NewCamera(conf *config.Config) Camera {
	return NewLeaseCamera(conf.Camera.MaxStreams, conf.Camera.AcquireTimeout, conf.Camera.Disabled)
}

func NewLeaseCamera(maxStreams int64, timeout time.Duration, disabled bool) *LeaseCamera {
	return &LeaseCamera{
		sem:      semaphore.NewWeighted(maxStreams),
		disabled: disabled,
		timeout:  timeout,
	}
}

func (c *LeaseCamera) Acquire(ctx context.Context, req types.CameraReq) (Stream, error) {
	if c.disabled || req.Permission != types.PermissionGranted {
		return nil, ErrCameraDenied
	}
	facing := req.Facing
	if facing == "" {
		facing = types.FacingEnvironment
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	c.active.Add(1)

	return &lease{facing: facing, release: func() {
		c.active.Add(-1)
		c.sem.Release(1)
	}}, nil
}

// Active 当前未释放的流数量
func (c *LeaseCamera) Active() int64 {
	return c.active.Load()
}

type lease struct {
	once    sync.Once
	facing  string
	release func()
}

func (l *lease) Facing() string {
	return l.facing
}

func (l *lease) Release() {
	l.once.Do(l.release)
}
