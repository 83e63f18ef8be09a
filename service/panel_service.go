package service

import (
	"Quickr/config"
	"Quickr/pkg/log"
	"Quickr/pkg/qrlink"
	"Quickr/pkg/utils"
	"context"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
)

var _ IPanelService = (*PanelService)(nil)

type IPanelService interface {
	Open() *Panel
	Get(id string) (*Panel, error)
	Close(id string) error
	// Sweep 关闭无订阅且空闲超过 ttl 的面板, 返回关闭数量
	Sweep(now time.Time) int
	// Run 周期性清理, 直到 ctx 结束后关闭所有面板
	Run(ctx context.Context) error
	Len() int
}

type PanelService struct {
	deps          *PanelDeps
	panels        cmap.ConcurrentMap[string, *Panel]
	idleTTL       time.Duration
	sweepInterval time.Duration
}

func NewPanelDeps(conf *config.Config, camera Camera, intake *Intake, sender Sender) (*PanelDeps, error) {
	receipt, err := utils.NewReceipt(conf.App.ReceiptSalt)
	if err != nil {
		return nil, err
	}
	return &PanelDeps{
		Builder:    qrlink.NewBuilder(conf.QR.Endpoint, conf.QR.Size),
		Camera:     camera,
		Intake:     intake,
		Sender:     sender,
		Receipt:    receipt,
		Clock:      RealClock(),
		SendDelay:  conf.Submit.SendDelay,
		ResetDelay: conf.Submit.ResetDelay,
	}, nil
}

func NewPanelService(conf *config.Config, deps *PanelDeps) IPanelService {
	return &PanelService{
		deps:          deps,
		panels:        cmap.New[*Panel](),
		idleTTL:       conf.Panel.IdleTTL,
		sweepInterval: conf.Panel.SweepInterval,
	}
}

func (s *PanelService) Open() *Panel {
	p := NewPanel(uuid.NewString(), s.deps)
	s.panels.Set(p.ID(), p)
	panelsOpen.Inc()
	log.L.Info("panel opened", zap.String("panel", p.ID()))
	return p
}

func (s *PanelService) Get(id string) (*Panel, error) {
	p, ok := s.panels.Get(id)
	if !ok {
		return nil, ErrPanelNotFound
	}
	return p, nil
}

func (s *PanelService) Close(id string) error {
	p, ok := s.panels.Pop(id)
	if !ok {
		return ErrPanelNotFound
	}
	p.Close()
	panelsOpen.Dec()
	log.L.Info("panel closed", zap.String("panel", id))
	return nil
}

func (s *PanelService) Sweep(now time.Time) int {
	var closed int
	for _, id := range s.panels.Keys() {
		p, ok := s.panels.Get(id)
		if !ok || !p.Idle(now, s.idleTTL) {
			continue
		}
		if s.panels.RemoveCb(id, func(_ string, v *Panel, exists bool) bool {
			return exists && v == p
		}) {
			p.Close()
			panelsOpen.Dec()
			closed++
		}
	}
	if closed > 0 {
		log.L.Info("idle panels reaped", zap.Int("count", closed))
	}
	return closed
}

func (s *PanelService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil
		case <-ticker.C:
			s.Sweep(s.deps.Clock.Now())
		}
	}
}

func (s *PanelService) Len() int {
	return s.panels.Count()
}

func (s *PanelService) closeAll() {
	for _, id := range s.panels.Keys() {
		if p, ok := s.panels.Pop(id); ok {
			p.Close()
			panelsOpen.Dec()
		}
	}
}
