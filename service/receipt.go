package service

import (
	"Quickr/dao"
	"Quickr/models"
	"Quickr/pkg/utils"
	"Quickr/types"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// 回执查询返回的图片临时链接有效期
const receiptURLExpire = 15 * time.Minute

var _ IReceiptService = (*ReceiptService)(nil)

type IReceiptService interface {
	Lookup(ctx context.Context, code string) (*types.ReceiptResp, error)
}

// SubmissionStore 归档记录的读取, 由 dao.Submission 实现
type SubmissionStore interface {
	FindSubmission(ctx context.Context, id int64) (*models.Submission, error)
}

// ReceiptService 归档模式下按回执码查询提交记录
type ReceiptService struct {
	Store   SubmissionStore
	Oss     IOssService
	Receipt *utils.Receipt
}

func NewReceiptService(repo *dao.Submission, oss IOssService, deps *PanelDeps) IReceiptService {
	s := &ReceiptService{Oss: oss, Receipt: deps.Receipt}
	if repo != nil {
		s.Store = repo
	}
	return s
}

func (s *ReceiptService) Lookup(ctx context.Context, code string) (*types.ReceiptResp, error) {
	if s.Store == nil || s.Oss == nil {
		return nil, ErrReceiptDisabled
	}
	id, err := s.Receipt.Decode(code)
	if err != nil {
		return nil, ErrReceiptNotFound
	}
	sub, err := s.Store.FindSubmission(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	// 换了盐值的旧回执可能解出别人的主键
	if sub.Receipt != code {
		return nil, ErrReceiptNotFound
	}
	url, err := s.Oss.SignURL(ctx, sub.OssKey, receiptURLExpire)
	if err != nil {
		return nil, err
	}
	return &types.ReceiptResp{
		Receipt:   sub.Receipt,
		Handle:    sub.Handle,
		ImageURL:  url,
		Width:     sub.Width,
		Height:    sub.Height,
		CreatedAt: sub.CreatedAt,
	}, nil
}
