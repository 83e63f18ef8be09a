package cache

import (
	"Quickr/config"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// ImageStorage 缓存外部服务生成的二维码图片, key 为请求 URL
type ImageStorage interface {
	Get(ctx context.Context, url string) ([]byte, bool)
	Set(ctx context.Context, url string, img []byte) error
}

// NewImageStorage 配置了 redis 时用 redis, 否则退回进程内缓存
func NewImageStorage(rds *redis.Client, conf *config.Config) ImageStorage {
	if rds != nil {
		return NewRedisImageStorage(rds, conf.QR.CacheTTL)
	}
	return NewLocalImageStorage(conf.QR.CacheTTL)
}

type RedisImageStorage struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisImageStorage(rds *redis.Client, ttl time.Duration) *RedisImageStorage {
	return &RedisImageStorage{redis: rds, ttl: ttl}
}

func (s *RedisImageStorage) Get(ctx context.Context, url string) ([]byte, bool) {
	b, err := s.redis.Get(ctx, imageKey(url)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (s *RedisImageStorage) Set(ctx context.Context, url string, img []byte) error {
	if len(img) == 0 {
		return errors.New("empty image")
	}
	return s.redis.Set(ctx, imageKey(url), img, s.ttl).Err()
}

type LocalImageStorage struct {
	store *gocache.Cache
}

func NewLocalImageStorage(ttl time.Duration) *LocalImageStorage {
	return &LocalImageStorage{store: gocache.New(ttl, 2*ttl)}
}

func (s *LocalImageStorage) Get(_ context.Context, url string) ([]byte, bool) {
	v, ok := s.store.Get(imageKey(url))
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (s *LocalImageStorage) Set(_ context.Context, url string, img []byte) error {
	if len(img) == 0 {
		return errors.New("empty image")
	}
	s.store.SetDefault(imageKey(url), img)
	return nil
}

// qr:image:<blake2b-256(url)>
func imageKey(url string) string {
	sum := blake2b.Sum256([]byte(url))
	return fmt.Sprintf("qr:image:%s", hex.EncodeToString(sum[:]))
}
