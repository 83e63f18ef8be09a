package service

import (
	"Quickr/config"
	"Quickr/dao"
	"Quickr/models"
	"Quickr/pkg/log"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Delivery 一次提交的内容快照
type Delivery struct {
	ID      int64
	Receipt string
	Handle  string
	Image   *UploadedImage
}

// Sender 提交的投递方式
type Sender interface {
	Send(ctx context.Context, d *Delivery) error
}

func NewSender(conf *config.Config, oss IOssService, repo *dao.Submission) Sender {
	if conf.Submit.Sink == config.SinkArchive {
		return &ArchiveSender{Oss: oss, Repo: repo, Prefix: conf.Oss.Prefix}
	}
	return DelaySender{}
}

// DelaySender 不做任何投递, 总是成功
type DelaySender struct{}

func (DelaySender) Send(ctx context.Context, d *Delivery) error {
	log.L.Info("submission accepted", zap.Int64("id", d.ID), zap.String("handle", d.Handle))
	return nil
}

// ArchiveSender 图片上传 OSS, 记录写入数据库
type ArchiveSender struct {
	Oss    IOssService
	Repo   *dao.Submission
	Prefix string
}

func (s *ArchiveSender) Send(ctx context.Context, d *Delivery) error {
	if d.Image == nil {
		return ErrMissingImage
	}
	objectKey := s.objectKey(d)

	if err := s.Oss.UploadReader(ctx, bytes.NewReader(d.Image.Data), objectKey); err != nil {
		return fmt.Errorf("upload %s: %w", objectKey, err)
	}

	meta, _ := json.Marshal(map[string]any{
		"filename": d.Image.Name,
		"sniffed":  d.Image.Sniff(),
	})
	record := &models.Submission{
		ID:          d.ID,
		Receipt:     d.Receipt,
		Handle:      d.Handle,
		OssKey:      objectKey,
		ContentType: d.Image.ContentType,
		Size:        d.Image.Size,
		Width:       d.Image.Width,
		Height:      d.Image.Height,
		Meta:        datatypes.JSON(meta),
		CreatedAt:   time.Now(),
	}
	if err := s.Repo.CreateSubmission(ctx, record); err != nil {
		// 记录写失败时清理已上传的对象
		if delErr := s.Oss.Delete(context.WithoutCancel(ctx), objectKey); delErr != nil {
			log.L.Warn("cleanup orphan object failed", zap.String("key", objectKey), zap.Error(delErr))
		}
		return err
	}
	log.L.Info("submission archived", zap.Int64("id", d.ID), zap.String("key", objectKey))
	return nil
}

// submission/2026/01/02/<id><ext>
func (s *ArchiveSender) objectKey(d *Delivery) string {
	ext := strings.ToLower(path.Ext(d.Image.Name))
	if ext == "" {
		ext = "." + strings.TrimPrefix(d.Image.ContentType, "image/")
	}
	key := fmt.Sprintf("submission/%s/%d%s", time.Now().Format("2006/01/02"), d.ID, ext)
	if s.Prefix != "" {
		key = strings.TrimSuffix(s.Prefix, "/") + "/" + key
	}
	return key
}
