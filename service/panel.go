package service

import (
	"Quickr/pkg/handle"
	"Quickr/pkg/log"
	"Quickr/pkg/qrlink"
	"Quickr/pkg/snowflake"
	"Quickr/pkg/utils"
	"Quickr/types"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PanelDeps 所有面板共享的依赖
type PanelDeps struct {
	Builder    *qrlink.Builder
	Camera     Camera
	Intake     *Intake
	Sender     Sender
	Receipt    *utils.Receipt
	Clock      Clock
	SendDelay  time.Duration
	ResetDelay time.Duration
}

// subscriber 缓冲区, 满了丢弃旧的推送而不是阻塞面板
const subscriberBuffer = 16

// Panel 一个页面对应的状态控制器. 页面上的所有状态都归它持有,
// 所有操作在 mu 下串行执行; 关闭时释放摄像头并停止所有定时器.
type Panel struct {
	id   string
	deps *PanelDeps

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	closed    bool
	updatedAt time.Time
	// seenAt 最近一次被访问的时间, 读操作也会刷新
	seenAt time.Time
	notice    *types.Notice

	text  string
	qrURL string
	scan  ScanMachine

	image    *UploadedImage
	preview  PreviewSlot
	dragging bool
	handle   string
	submit   SubmitMachine

	subs    map[uint64]chan types.PanelEvent
	nextSub uint64
}

func NewPanel(id string, deps *PanelDeps) *Panel {
	ctx, cancel := context.WithCancel(context.Background())
	return &Panel{
		id:        id,
		deps:      deps,
		ctx:       ctx,
		cancel:    cancel,
		updatedAt: deps.Clock.Now(),
		seenAt:    deps.Clock.Now(),
		scan:      NewScanMachine(),
		submit:    NewSubmitMachine(),
		subs:      make(map[uint64]chan types.PanelEvent),
	}
}

func (p *Panel) ID() string {
	return p.id
}

func (p *Panel) Snapshot() types.PanelSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seenLocked()
	return p.snapshotLocked()
}

// Idle 有订阅者的面板页面仍然打开, 不算空闲
func (p *Panel) Idle(now time.Time, ttl time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.subs) > 0 {
		return false
	}
	return now.Sub(p.seenAt) >= ttl
}

// Generate 生成二维码请求地址, 空白文本不会产生任何请求
func (p *Panel) Generate(text string) (types.GenerateQRResp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return types.GenerateQRResp{}, ErrPanelClosed
	}

	url, err := p.deps.Builder.Build(text)
	if err != nil {
		return types.GenerateQRResp{}, p.failLocked(textNotice(err))
	}
	p.text = text
	p.qrURL = url
	p.changedLocked()
	return types.GenerateQRResp{Text: text, QRURL: url}, nil
}

func (p *Panel) ClearQR() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPanelClosed
	}
	p.text = ""
	p.qrURL = ""
	p.changedLocked()
	return nil
}

// StartScan idle -> camera-active. 等待摄像头期间不持有面板锁,
// 期间如果被停止或面板关闭, 拿到的流会立即释放.
func (p *Panel) StartScan(ctx context.Context, req types.CameraReq) (types.ScanSnapshot, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return types.ScanSnapshot{}, ErrPanelClosed
	}
	token, err := p.scan.BeginStart()
	if err != nil {
		p.mu.Unlock()
		return types.ScanSnapshot{}, err
	}
	p.changedLocked()
	p.mu.Unlock()

	stream, acquireErr := p.deps.Camera.Acquire(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	if acquireErr != nil {
		p.scan.FailStart(token)
		log.L.Info("camera acquire failed", zap.String("panel", p.id), zap.Error(acquireErr))
		return p.scan.Snapshot(), p.failLocked(acquireErr)
	}
	if p.closed {
		stream.Release()
		return types.ScanSnapshot{}, ErrPanelClosed
	}
	if err := p.scan.CompleteStart(token, stream); err != nil {
		return p.scan.Snapshot(), err
	}
	p.changedLocked()
	return p.scan.Snapshot(), nil
}

// SimulateScan camera-active -> result-available, 结果固定为演示内容
func (p *Panel) SimulateScan() (types.ScanSnapshot, error) {
	return p.scanAction(func() error {
		_, err := p.scan.Simulate()
		return err
	})
}

func (p *Panel) StopScan() (types.ScanSnapshot, error) {
	return p.scanAction(p.scan.Stop)
}

func (p *Panel) ClearScan() (types.ScanSnapshot, error) {
	return p.scanAction(p.scan.Clear)
}

func (p *Panel) scanAction(fn func() error) (types.ScanSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return types.ScanSnapshot{}, ErrPanelClosed
	}
	if err := fn(); err != nil {
		return p.scan.Snapshot(), p.failLocked(err)
	}
	p.changedLocked()
	return p.scan.Snapshot(), nil
}

// SetHandle 每次输入都会格式化并重新校验整串内容
func (p *Panel) SetHandle(raw string) (types.UpdateHandleResp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return types.UpdateHandleResp{}, ErrPanelClosed
	}
	p.handle = handle.Format(raw)
	p.changedLocked()

	resp := types.UpdateHandleResp{Handle: p.handle, Valid: true}
	if err := handle.Check(p.handle); err != nil {
		resp.Valid = false
		resp.Reason = handleNotice(err).Error()
	}
	return resp, nil
}

// AcceptImage 受理一个文件, 预览异步生成
func (p *Panel) AcceptImage(u *Upload) (types.UploadImageResp, error) {
	img, err := p.deps.Intake.Read(u)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return types.UploadImageResp{}, ErrPanelClosed
	}
	p.dragging = false
	if err != nil {
		return types.UploadImageResp{}, p.failLocked(err)
	}
	if p.submit.State() != types.SubmissionIdle {
		return types.UploadImageResp{}, p.failLocked(ErrSubmitBusy)
	}

	p.image = img
	token := p.preview.Begin()
	p.changedLocked()

	go p.renderPreview(token, img)

	return imageResp(img), nil
}

func (p *Panel) renderPreview(token uint64, img *UploadedImage) {
	uri := PreviewDataURI(img)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.preview.Resolve(token, uri) {
		p.changedLocked()
	}
}

func (p *Panel) Preview() (types.PreviewResp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return types.PreviewResp{}, ErrPanelClosed
	}
	p.seenLocked()
	if p.image == nil {
		return types.PreviewResp{}, ErrMissingImage
	}
	return types.PreviewResp{Ready: p.preview.Ready(), DataURI: p.preview.URI()}, nil
}

func (p *Panel) ClearImage() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPanelClosed
	}
	if p.submit.State() != types.SubmissionIdle {
		return p.failLocked(ErrSubmitBusy)
	}
	p.image = nil
	p.preview.Reset()
	p.changedLocked()
	return nil
}

// Drag 拖拽状态只用于展示
func (p *Panel) Drag(event string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPanelClosed
	}
	switch event {
	case types.DragEnter:
		p.dragging = true
	case types.DragLeave, types.DragDrop:
		p.dragging = false
	}
	p.changedLocked()
	return nil
}

// Submit idle -> submitting. 需要已受理的图片和合法的 handle.
func (p *Panel) Submit() (types.SubmissionSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return types.SubmissionSnapshot{}, ErrPanelClosed
	}
	if p.submit.State() != types.SubmissionIdle {
		return p.submit.Snapshot(), p.failLocked(ErrSubmitBusy)
	}
	if p.image == nil {
		return p.submit.Snapshot(), p.failLocked(ErrMissingImage)
	}
	if err := handle.Check(p.handle); err != nil {
		return p.submit.Snapshot(), p.failLocked(handleNotice(err))
	}

	id := snowflake.GenID()
	receipt, err := p.deps.Receipt.Encode(id)
	if err != nil {
		return p.submit.Snapshot(), err
	}
	token, err := p.submit.Begin(id, receipt)
	if err != nil {
		return p.submit.Snapshot(), p.failLocked(err)
	}
	delivery := &Delivery{ID: id, Receipt: receipt, Handle: p.handle, Image: p.image}
	p.submit.Schedule(p.deps.Clock.AfterFunc(p.deps.SendDelay, func() {
		p.deliver(token, delivery)
	}))
	p.changedLocked()
	return p.submit.Snapshot(), nil
}

// deliver 发送延时到期. 投递过程不持有面板锁.
func (p *Panel) deliver(token uint64, d *Delivery) {
	p.mu.Lock()
	if p.closed || p.submit.State() != types.SubmissionSubmitting {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	sendErr := p.deps.Sender.Send(p.ctx, d)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if sendErr != nil {
		if p.submit.Failed(token) {
			submissionsTotal.WithLabelValues("failed").Inc()
			log.L.Warn("submission failed", zap.String("panel", p.id), zap.Int64("id", d.ID), zap.Error(sendErr))
			p.failLocked(ErrSendFailed)
		}
		return
	}
	if !p.submit.Delivered(token) {
		return
	}
	submissionsTotal.WithLabelValues("delivered").Inc()
	p.submit.Schedule(p.deps.Clock.AfterFunc(p.deps.ResetDelay, func() {
		p.reset(token)
	}))
	p.changedLocked()
}

// reset submitted -> idle, 清空 handle / 图片 / 预览
func (p *Panel) reset(token uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.submit.Reset(token) {
		return
	}
	p.submit.StopTimer()
	p.handle = ""
	p.image = nil
	p.preview.Reset()
	p.dragging = false
	p.changedLocked()
}

// Subscribe 订阅状态推送, 订阅时立即收到一次当前快照
func (p *Panel) Subscribe() (<-chan types.PanelEvent, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan types.PanelEvent, subscriberBuffer)
	if p.closed {
		ch <- types.PanelEvent{Event: types.EventClosed, Panel: p.snapshotLocked()}
		close(ch)
		return ch, func() {}
	}
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	ch <- types.PanelEvent{Event: types.EventSnapshot, Panel: p.snapshotLocked()}

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if c, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(c)
			p.seenLocked()
		}
	}
}

// Close 面板销毁: 释放摄像头, 停止定时器, 作废在途预览, 关闭订阅. 可重复调用.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.cancel()
	p.scan.Teardown()
	p.submit.Teardown()
	p.preview.Reset()
	p.image = nil
	p.updatedAt = p.deps.Clock.Now()

	ev := types.PanelEvent{Event: types.EventClosed, Panel: p.snapshotLocked()}
	for id, ch := range p.subs {
		select {
		case ch <- ev:
		default:
		}
		close(ch)
		delete(p.subs, id)
	}
}

func (p *Panel) failLocked(err error) error {
	p.notice = toNotice(err)
	p.touchLocked()
	return err
}

func (p *Panel) changedLocked() {
	p.notice = nil
	p.touchLocked()
}

func (p *Panel) touchLocked() {
	p.updatedAt = p.deps.Clock.Now()
	p.seenAt = p.updatedAt
	p.publishLocked()
}

func (p *Panel) seenLocked() {
	p.seenAt = p.deps.Clock.Now()
}

func (p *Panel) publishLocked() {
	if len(p.subs) == 0 {
		return
	}
	ev := types.PanelEvent{Event: types.EventSnapshot, Panel: p.snapshotLocked()}
	for _, ch := range p.subs {
		select {
		case ch <- ev:
		default:
			// 慢消费者: 丢掉最旧的一条再放入最新快照
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

func (p *Panel) snapshotLocked() types.PanelSnapshot {
	snap := types.PanelSnapshot{
		ID:          p.id,
		Text:        p.text,
		QRURL:       p.qrURL,
		Scan:        p.scan.Snapshot(),
		Dragging:    p.dragging,
		Handle:      p.handle,
		HandleValid: handle.Validate(p.handle),
		Submission:  p.submit.Snapshot(),
		Notice:      p.notice,
		Closed:      p.closed,
		UpdatedAt:   p.updatedAt,
	}
	if p.image != nil {
		snap.Image = &types.ImageInfo{
			UploadImageResp: imageResp(p.image),
			PreviewReady:    p.preview.Ready(),
		}
	}
	return snap
}

func imageResp(img *UploadedImage) types.UploadImageResp {
	return types.UploadImageResp{
		Name:        img.Name,
		ContentType: img.ContentType,
		Size:        img.Size,
		Width:       img.Width,
		Height:      img.Height,
	}
}
