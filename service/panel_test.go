package service

import (
	"Quickr/types"
	"context"
	"errors"
	"testing"
	"time"
)

func TestPanelGenerate(t *testing.T) {
	p := newTestPanel(t)

	resp, err := p.Generate("hello")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=hello"
	if resp.QRURL != want {
		t.Fatalf("QRURL = %q, want %q", resp.QRURL, want)
	}

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := p.Generate(text); !errors.Is(err, ErrEmptyText) {
			t.Fatalf("Generate(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
	snap := p.Snapshot()
	if snap.QRURL != want || snap.Text != "hello" {
		t.Fatalf("refused text replaced previous url: %+v", snap)
	}
	if snap.Notice == nil || snap.Notice.Code != ErrEmptyText.Code {
		t.Fatalf("notice = %+v, want %d", snap.Notice, ErrEmptyText.Code)
	}

	if err := p.ClearQR(); err != nil {
		t.Fatalf("ClearQR() error = %v", err)
	}
	if snap := p.Snapshot(); snap.QRURL != "" || snap.Text != "" || snap.Notice != nil {
		t.Fatalf("after clear: %+v", snap)
	}
}

func TestPanelSimulateScan(t *testing.T) {
	p := newTestPanel(t)
	ctx := context.Background()

	scan, err := p.StartScan(ctx, types.CameraReq{Permission: types.PermissionGranted})
	if err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	if scan.State != types.ScanCameraActive || scan.Facing != types.FacingEnvironment {
		t.Fatalf("scan = %+v", scan)
	}
	if p.camera.Active() != 1 {
		t.Fatalf("active streams = %d, want 1", p.camera.Active())
	}

	scan, err = p.SimulateScan()
	if err != nil {
		t.Fatalf("SimulateScan() error = %v", err)
	}
	if scan.State != types.ScanResultAvailable || scan.Result != types.DemoScanResult {
		t.Fatalf("scan = %+v", scan)
	}
	if p.camera.Active() != 0 {
		t.Fatalf("camera not released after simulate")
	}

	scan, err = p.ClearScan()
	if err != nil || scan.State != types.ScanIdle || scan.Result != "" {
		t.Fatalf("ClearScan() = %+v, %v", scan, err)
	}
}

func TestPanelScanStop(t *testing.T) {
	p := newTestPanel(t)

	if _, err := p.StartScan(context.Background(), types.CameraReq{Facing: types.FacingUser, Permission: types.PermissionGranted}); err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	scan, err := p.StopScan()
	if err != nil || scan.State != types.ScanIdle || scan.Result != "" {
		t.Fatalf("StopScan() = %+v, %v", scan, err)
	}
	if p.camera.Active() != 0 {
		t.Fatalf("camera not released after stop")
	}
}

func TestPanelScanDenied(t *testing.T) {
	p := newTestPanel(t)

	scan, err := p.StartScan(context.Background(), types.CameraReq{Permission: types.PermissionDenied})
	if !errors.Is(err, ErrCameraDenied) {
		t.Fatalf("StartScan() error = %v, want ErrCameraDenied", err)
	}
	if scan.State != types.ScanIdle || scan.Pending {
		t.Fatalf("scan = %+v, want idle", scan)
	}
	if n := p.Snapshot().Notice; n == nil || n.Code != ErrCameraDenied.Code {
		t.Fatalf("notice = %+v", n)
	}
}

func TestPanelScanIllegalTransitions(t *testing.T) {
	p := newTestPanel(t)

	for name, fn := range map[string]func() (types.ScanSnapshot, error){
		"simulate": p.SimulateScan,
		"stop":     p.StopScan,
		"clear":    p.ClearScan,
	} {
		scan, err := fn()
		if !errors.Is(err, ErrScanTransition) {
			t.Fatalf("%s from idle: error = %v", name, err)
		}
		if scan.State != types.ScanIdle {
			t.Fatalf("%s from idle changed state to %s", name, scan.State)
		}
	}

	if _, err := p.StartScan(context.Background(), types.CameraReq{Permission: types.PermissionGranted}); err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	if _, err := p.StartScan(context.Background(), types.CameraReq{Permission: types.PermissionGranted}); !errors.Is(err, ErrScanTransition) {
		t.Fatalf("second StartScan() error = %v", err)
	}
	if p.camera.Active() != 1 {
		t.Fatalf("active streams = %d, want 1", p.camera.Active())
	}
}

func TestPanelSubmitSequence(t *testing.T) {
	p := newTestPanel(t)

	img, err := p.AcceptImage(newUpload("cat.png", "image/png", pngBytes(t, 4, 3)))
	if err != nil {
		t.Fatalf("AcceptImage() error = %v", err)
	}
	if img.Width != 4 || img.Height != 3 {
		t.Fatalf("dimensions = %dx%d", img.Width, img.Height)
	}
	waitFor(t, "preview", func() bool {
		pv, err := p.Preview()
		return err == nil && pv.Ready
	})

	h, err := p.SetHandle("@valid_1")
	if err != nil || !h.Valid || h.Handle != "@valid_1" {
		t.Fatalf("SetHandle() = %+v, %v", h, err)
	}

	sub, err := p.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sub.State != types.SubmissionSubmitting || sub.Receipt == "" {
		t.Fatalf("submission = %+v", sub)
	}
	if _, err := p.Submit(); !errors.Is(err, ErrSubmitBusy) {
		t.Fatalf("second Submit() error = %v", err)
	}

	p.clock.Advance(time.Second)
	if s := p.Snapshot().Submission.State; s != types.SubmissionSubmitting {
		t.Fatalf("state after 1s = %s", s)
	}

	p.clock.Advance(time.Second)
	snap := p.Snapshot()
	if snap.Submission.State != types.SubmissionSubmitted {
		t.Fatalf("state after 2s = %s", snap.Submission.State)
	}
	if p.sender.Count() != 1 || p.sender.got[0].Handle != "@valid_1" {
		t.Fatalf("sender got %d deliveries", p.sender.Count())
	}

	p.clock.Advance(3 * time.Second)
	snap = p.Snapshot()
	if snap.Submission.State != types.SubmissionIdle {
		t.Fatalf("state after reset = %s", snap.Submission.State)
	}
	if snap.Handle != "" || snap.Image != nil {
		t.Fatalf("form not cleared: %+v", snap)
	}
	if _, err := p.Preview(); !errors.Is(err, ErrMissingImage) {
		t.Fatalf("Preview() after reset error = %v", err)
	}
}

func TestPanelSubmitShortHandle(t *testing.T) {
	p := newTestPanel(t)

	if _, err := p.AcceptImage(newUpload("a.png", "image/png", pngBytes(t, 1, 1))); err != nil {
		t.Fatalf("AcceptImage() error = %v", err)
	}
	h, _ := p.SetHandle("ab")
	if h.Valid || h.Handle != "@ab" {
		t.Fatalf("SetHandle(ab) = %+v", h)
	}

	sub, err := p.Submit()
	if !errors.Is(err, ErrHandleTooShort) {
		t.Fatalf("Submit() error = %v, want ErrHandleTooShort", err)
	}
	if sub.State != types.SubmissionIdle || p.clock.Pending() != 0 {
		t.Fatalf("refused submit left state %s with %d timers", sub.State, p.clock.Pending())
	}
}

func TestPanelSubmitMissingImage(t *testing.T) {
	p := newTestPanel(t)
	p.SetHandle("valid_handle")

	if _, err := p.Submit(); !errors.Is(err, ErrMissingImage) {
		t.Fatalf("Submit() error = %v, want ErrMissingImage", err)
	}
}

func TestPanelSubmitSendFailure(t *testing.T) {
	p := newTestPanel(t)
	p.sender.err = errBoom

	if _, err := p.AcceptImage(newUpload("a.png", "image/png", pngBytes(t, 1, 1))); err != nil {
		t.Fatalf("AcceptImage() error = %v", err)
	}
	p.SetHandle("valid_handle")
	if _, err := p.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	p.clock.Advance(2 * time.Second)
	snap := p.Snapshot()
	if snap.Submission.State != types.SubmissionIdle {
		t.Fatalf("state = %s, want idle", snap.Submission.State)
	}
	if snap.Notice == nil || snap.Notice.Code != ErrSendFailed.Code {
		t.Fatalf("notice = %+v", snap.Notice)
	}
	if snap.Handle != "@valid_handle" || snap.Image == nil {
		t.Fatalf("payload not kept for retry: %+v", snap)
	}

	p.sender.err = nil
	if _, err := p.Submit(); err != nil {
		t.Fatalf("retry Submit() error = %v", err)
	}
	p.clock.Advance(2 * time.Second)
	if s := p.Snapshot().Submission.State; s != types.SubmissionSubmitted {
		t.Fatalf("retry state = %s", s)
	}
}

func TestPanelImageRejected(t *testing.T) {
	p := newTestPanel(t)

	if _, err := p.AcceptImage(newUpload("notes.txt", "text/plain", []byte("hi"))); !errors.Is(err, ErrNotImage) {
		t.Fatalf("AcceptImage(text/plain) error = %v", err)
	}
	snap := p.Snapshot()
	if snap.Image != nil || snap.Notice == nil || snap.Notice.Code != ErrNotImage.Code {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestPanelImageReplaced(t *testing.T) {
	p := newTestPanel(t)

	first := pngBytes(t, 1, 1)
	second := pngBytes(t, 5, 5)
	if _, err := p.AcceptImage(newUpload("a.png", "image/png", first)); err != nil {
		t.Fatalf("AcceptImage() error = %v", err)
	}
	if _, err := p.AcceptImage(newUpload("b.png", "image/png", second)); err != nil {
		t.Fatalf("AcceptImage() error = %v", err)
	}

	want := PreviewDataURI(&UploadedImage{ContentType: "image/png", Data: second})
	waitFor(t, "preview", func() bool {
		pv, err := p.Preview()
		return err == nil && pv.Ready
	})
	pv, _ := p.Preview()
	if pv.DataURI != want {
		t.Fatalf("preview does not match the newest file")
	}
	if name := p.Snapshot().Image.Name; name != "b.png" {
		t.Fatalf("image = %q", name)
	}
}

func TestPanelDrag(t *testing.T) {
	p := newTestPanel(t)

	p.Drag(types.DragEnter)
	if !p.Snapshot().Dragging {
		t.Fatalf("enter did not set dragging")
	}
	p.Drag(types.DragLeave)
	if p.Snapshot().Dragging {
		t.Fatalf("leave did not clear dragging")
	}
}

func TestPanelCloseTearsDown(t *testing.T) {
	p := newTestPanel(t)

	if _, err := p.StartScan(context.Background(), types.CameraReq{Permission: types.PermissionGranted}); err != nil {
		t.Fatalf("StartScan() error = %v", err)
	}
	if _, err := p.AcceptImage(newUpload("a.png", "image/png", pngBytes(t, 1, 1))); err != nil {
		t.Fatalf("AcceptImage() error = %v", err)
	}
	p.SetHandle("valid_handle")
	if _, err := p.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	events, cancel := p.Subscribe()
	defer cancel()
	<-events

	p.Close()
	p.Close()

	if p.camera.Active() != 0 {
		t.Fatalf("camera not released on close")
	}
	if p.clock.Pending() != 0 {
		t.Fatalf("%d timers still pending after close", p.clock.Pending())
	}
	p.clock.Advance(10 * time.Second)
	if p.sender.Count() != 0 {
		t.Fatalf("delivery ran after close")
	}

	var last types.PanelEvent
	for ev := range events {
		last = ev
	}
	if last.Event != types.EventClosed || !last.Panel.Closed {
		t.Fatalf("last event = %+v", last)
	}
	if _, err := p.Generate("hello"); !errors.Is(err, ErrPanelClosed) {
		t.Fatalf("Generate() after close error = %v", err)
	}
}

func TestPanelSubscribe(t *testing.T) {
	p := newTestPanel(t)

	events, cancel := p.Subscribe()
	first := <-events
	if first.Event != types.EventSnapshot || first.Panel.ID != "panel-1" {
		t.Fatalf("first event = %+v", first)
	}

	p.Generate("hello")
	ev := <-events
	if ev.Panel.Text != "hello" {
		t.Fatalf("event text = %q", ev.Panel.Text)
	}

	cancel()
	if _, ok := <-events; ok {
		t.Fatalf("channel still open after cancel")
	}
}
