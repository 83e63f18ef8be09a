package service

import (
	"Quickr/config"
	"Quickr/pkg/response"
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/webp"
)

// UploadedImage 已受理的图片, 只在面板会话内存活
type UploadedImage struct {
	Name        string
	ContentType string
	Size        int64
	Width       int
	Height      int
	Data        []byte
}

// Upload 一个待受理的文件字段, Body 只读一次
type Upload struct {
	Name        string
	ContentType string
	// Size 未知时为 -1
	Size int64
	Body io.Reader
}

// Intake 单文件受理: 先校验声明的 MIME, 再校验大小
type Intake struct {
	MaxBytes int64
}

func NewIntake(conf *config.Config) *Intake {
	return &Intake{MaxBytes: conf.Upload.MaxBytes}
}

// Check 只看声明的类型和大小
func (in *Intake) Check(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrNotImage
	}
	if size > in.MaxBytes {
		return in.tooLarge()
	}
	return nil
}

// tooLarge 提示里带上实际配置的上限
func (in *Intake) tooLarge() error {
	return response.NewError(ErrImageTooLarge.Code,
		fmt.Sprintf("image must be %s or smaller", humanize.IBytes(uint64(in.MaxBytes))))
}

// Read 先看声明的类型, 再边读边限制大小, 声明的 Size 不可信
func (in *Intake) Read(u *Upload) (*UploadedImage, error) {
	if u == nil || u.Body == nil {
		return nil, ErrMissingFile
	}
	contentType := u.ContentType
	if err := in.Check(contentType, u.Size); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(u.Body, in.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > in.MaxBytes {
		return nil, in.tooLarge()
	}

	img := &UploadedImage{
		Name:        u.Name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
	// 尺寸只用于展示, 解析失败不影响受理
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	}
	return img, nil
}

// Sniff 按内容识别的类型, 仅用于日志和归档元数据
func (img *UploadedImage) Sniff() string {
	return http.DetectContentType(img.Data)
}

// PreviewDataURI data:<type>;base64,<payload>
func PreviewDataURI(img *UploadedImage) string {
	if img == nil || len(img.Data) == 0 {
		return ""
	}
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// PreviewSlot 保存异步生成的预览. 每次受理新文件都会换代,
// 旧代次的结果直接丢弃, 预览总是对应最近一次受理的文件.
type PreviewSlot struct {
	gen   uint64
	uri   string
	ready bool
}

// Begin 开始新一代预览, 返回代次 token
func (p *PreviewSlot) Begin() uint64 {
	p.gen++
	p.uri = ""
	p.ready = false
	return p.gen
}

// Resolve 仅当 token 仍是当前代次时写入
func (p *PreviewSlot) Resolve(token uint64, uri string) bool {
	if token != p.gen {
		return false
	}
	p.uri = uri
	p.ready = true
	return true
}

// Reset 清空并作废所有在途的生成
func (p *PreviewSlot) Reset() {
	p.gen++
	p.uri = ""
	p.ready = false
}

func (p *PreviewSlot) Ready() bool {
	return p.ready
}

func (p *PreviewSlot) URI() string {
	return p.uri
}
