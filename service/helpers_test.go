package service

import (
	"Quickr/pkg/qrlink"
	"Quickr/pkg/utils"
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sort"
	"sync"
	"testing"
	"time"
)

// fakeClock 手动推进的时钟, 回调在释放时钟锁之后执行
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance 推进时间并依次触发到期的定时器
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	rest := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case !t.at.After(c.now):
			t.fired = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	c.timers = rest
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

// Pending 尚未触发也未停止的定时器数量
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recordSender struct {
	mu  sync.Mutex
	err error
	got []*Delivery
}

func (s *recordSender) Send(_ context.Context, d *Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, d)
	return s.err
}

func (s *recordSender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

var errBoom = errors.New("boom")

type testPanel struct {
	*Panel
	clock  *fakeClock
	camera *LeaseCamera
	sender *recordSender
}

func newTestDeps(t *testing.T) (*PanelDeps, *fakeClock, *LeaseCamera, *recordSender) {
	t.Helper()
	receipt, err := utils.NewReceipt("quickr-test")
	if err != nil {
		t.Fatalf("NewReceipt() error = %v", err)
	}
	clock := newFakeClock()
	camera := NewLeaseCamera(1, 0, false)
	sender := &recordSender{}
	deps := &PanelDeps{
		Builder:    qrlink.NewBuilder("", 0),
		Camera:     camera,
		Intake:     &Intake{MaxBytes: 10 << 20},
		Sender:     sender,
		Receipt:    receipt,
		Clock:      clock,
		SendDelay:  2 * time.Second,
		ResetDelay: 3 * time.Second,
	}
	return deps, clock, camera, sender
}

func newTestPanel(t *testing.T) *testPanel {
	t.Helper()
	deps, clock, camera, sender := newTestDeps(t)
	p := NewPanel("panel-1", deps)
	t.Cleanup(p.Close)
	return &testPanel{Panel: p, clock: clock, camera: camera, sender: sender}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func newUpload(name, contentType string, data []byte) *Upload {
	return &Upload{Name: name, ContentType: contentType, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
