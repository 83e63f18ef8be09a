package dao

import (
	"Quickr/models"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Submission struct {
	Repo[models.Submission]
}

func NewSubmission(db *gorm.DB) *Submission {
	if db == nil {
		return nil
	}
	return &Submission{
		Repo: NewRepo[models.Submission](db),
	}
}

func (s *Submission) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	if err := s.Repo.Create(ctx, sub); err != nil {
		return fmt.Errorf("dao.Submission.Create error: %w", err)
	}
	return nil
}

// FindSubmission 按主键查询, 回执码解码后得到主键
func (s *Submission) FindSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	return s.Repo.FindById(ctx, id)
}
