package service

import (
	"Quickr/config"
	"Quickr/dao/cache"
	"Quickr/pkg/log"
	"Quickr/pkg/qrlink"
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// 外部服务返回的图片上限
const maxQRImageBytes = 2 << 20

var _ IQRService = (*QRService)(nil)

type IQRService interface {
	// Download 拉取外部服务生成的图片, 按请求 URL 缓存
	Download(ctx context.Context, text string) ([]byte, string, error)
}

type QRService struct {
	Builder *qrlink.Builder
	Storage cache.ImageStorage
	Client  *http.Client
}

func NewQRService(conf *config.Config, storage cache.ImageStorage) IQRService {
	return &QRService{
		Builder: qrlink.NewBuilder(conf.QR.Endpoint, conf.QR.Size),
		Storage: storage,
		Client:  &http.Client{Timeout: conf.QR.FetchTimeout},
	}
}

func (s *QRService) Download(ctx context.Context, text string) ([]byte, string, error) {
	url, err := s.Builder.Build(text)
	if err != nil {
		return nil, "", textNotice(err)
	}

	if img, ok := s.Storage.Get(ctx, url); ok {
		qrDownloadsTotal.WithLabelValues("cache").Inc()
		return img, http.DetectContentType(img), nil
	}

	img, err := s.fetch(ctx, url)
	if err != nil {
		log.L.Warn("fetch qr image failed", zap.String("url", url), zap.Error(err))
		qrDownloadsTotal.WithLabelValues("error").Inc()
		return nil, "", ErrQRUpstream
	}
	qrDownloadsTotal.WithLabelValues("upstream").Inc()
	if err := s.Storage.Set(ctx, url, img); err != nil {
		log.L.Warn("cache qr image failed", zap.Error(err))
	}
	return img, http.DetectContentType(img), nil
}

func (s *QRService) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	img, err := io.ReadAll(io.LimitReader(resp.Body, maxQRImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(img) == 0 || len(img) > maxQRImageBytes {
		return nil, fmt.Errorf("unexpected image size %d", len(img))
	}
	return img, nil
}
