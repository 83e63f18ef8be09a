package service

import (
	"Quickr/config"
	ossclient "Quickr/pkg/oss"
	"context"
	"io"
	"time"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
)

var _ IOssService = (*OssService)(nil)

type IOssService interface {
	// UploadReader 上传流（HTTP / 表单上传）
	UploadReader(ctx context.Context, reader io.Reader, objectKey string) error

	// Delete 删除对象
	Delete(ctx context.Context, objectKey string) error

	// SignURL 生成临时访问 URL
	SignURL(ctx context.Context, objectKey string, expire time.Duration) (string, error)
}

type OssService struct {
	Client     *oss.Client
	BucketName string
}

// NewOssService 只有归档投递才需要 OSS
func NewOssService(conf *config.Config) IOssService {
	if conf.Submit.Sink != config.SinkArchive {
		return nil
	}
	return &OssService{
		Client:     ossclient.NewClient(conf.Oss),
		BucketName: conf.Oss.Bucket,
	}
}

// UploadReader 上传 Reader（HTTP 上传场景）
func (s *OssService) UploadReader(
	ctx context.Context,
	reader io.Reader,
	objectKey string,
) error {
	_, err := s.Client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket: oss.Ptr(s.BucketName),
		Key:    oss.Ptr(objectKey),
		Body:   reader,
	})
	return err
}

// Delete 删除对象
func (s *OssService) Delete(
	ctx context.Context,
	objectKey string,
) error {

	_, err := s.Client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.BucketName),
		Key:    oss.Ptr(objectKey),
	})
	return err
}

// SignURL 生成临时访问 URL
func (s *OssService) SignURL(
	ctx context.Context,
	objectKey string,
	expire time.Duration,
) (string, error) {

	result, err := s.Client.Presign(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.BucketName),
		Key:    oss.Ptr(objectKey),
	}, oss.PresignExpires(expire))
	if err != nil {
		return "", err
	}

	return result.URL, nil
}
