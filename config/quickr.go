package config

import "time"

const (
	SinkDelay   = "delay"
	SinkArchive = "archive"
)

// QR 外部二维码生成服务
type QR struct {
	Endpoint string `json:"endpoint" yaml:"endpoint" env:"ENDPOINT"`
	Size     int    `json:"size" yaml:"size" env:"SIZE"`
	// CacheTTL 下载图片缓存时间
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" env:"CACHE_TTL"`
	// FetchTimeout 拉取外部图片超时
	FetchTimeout time.Duration `json:"fetch_timeout" yaml:"fetch_timeout" env:"FETCH_TIMEOUT"`
}

func (q *QR) applyDefaults() {
	if q.Endpoint == "" {
		q.Endpoint = "https://api.qrserver.com/v1/create-qr-code/"
	}
	if q.Size == 0 {
		q.Size = 300
	}
	if q.CacheTTL == 0 {
		q.CacheTTL = 10 * time.Minute
	}
	if q.FetchTimeout == 0 {
		q.FetchTimeout = 10 * time.Second
	}
}

type Upload struct {
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" env:"MAX_BYTES"`
}

func (u *Upload) applyDefaults() {
	if u.MaxBytes == 0 {
		u.MaxBytes = 10 << 20
	}
}

type Camera struct {
	// Disabled 为 true 时所有开启摄像头请求都视为被拒绝
	Disabled       bool          `json:"disabled" yaml:"disabled" env:"DISABLED"`
	MaxStreams     int64         `json:"max_streams" yaml:"max_streams" env:"MAX_STREAMS"`
	AcquireTimeout time.Duration `json:"acquire_timeout" yaml:"acquire_timeout" env:"ACQUIRE_TIMEOUT"`
}

func (c *Camera) applyDefaults() {
	if c.MaxStreams == 0 {
		c.MaxStreams = 64
	}
	if c.AcquireTimeout == 0 {
		c.AcquireTimeout = 15 * time.Second
	}
}

type Submit struct {
	Sink       string        `json:"sink" yaml:"sink" env:"SINK"`
	SendDelay  time.Duration `json:"send_delay" yaml:"send_delay" env:"SEND_DELAY"`
	ResetDelay time.Duration `json:"reset_delay" yaml:"reset_delay" env:"RESET_DELAY"`
}

func (s *Submit) applyDefaults() {
	if s.Sink == "" {
		s.Sink = SinkDelay
	}
	if s.SendDelay == 0 {
		s.SendDelay = 2 * time.Second
	}
	if s.ResetDelay == 0 {
		s.ResetDelay = 3 * time.Second
	}
}

type Panel struct {
	IdleTTL       time.Duration `json:"idle_ttl" yaml:"idle_ttl" env:"IDLE_TTL"`
	SweepInterval time.Duration `json:"sweep_interval" yaml:"sweep_interval" env:"SWEEP_INTERVAL"`
}

func (p *Panel) applyDefaults() {
	if p.IdleTTL == 0 {
		p.IdleTTL = 30 * time.Minute
	}
	if p.SweepInterval == 0 {
		p.SweepInterval = time.Minute
	}
}
