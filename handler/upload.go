package handler

import (
	"Quickr/pkg/context"
	"Quickr/pkg/response"
	"Quickr/service"
	"Quickr/types"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Upload struct {
	PanelService service.IPanelService
}

func (h *Upload) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/panels/:id")
	g.PUT("/handle", context.Wrap(h.UpdateHandle))
	g.POST("/image", context.Wrap(h.UploadImage))
	g.DELETE("/image", context.Wrap(h.ClearImage))
	g.GET("/image/preview", context.Wrap(h.Preview))
	g.POST("/drag", context.Wrap(h.Drag))
	g.POST("/submit", context.Wrap(h.Submit))
}

func (h *Upload) UpdateHandle(c *gin.Context) error {
	var req types.UpdateHandleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数格式错误")
	}
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}
	resp, err := p.SetHandle(req.Handle)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// UploadImage 选择或拖放的文件都走这里, 多个 image 字段只取第一个
func (h *Upload) UploadImage(c *gin.Context) error {
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}

	part, err := firstImagePart(c.Request)
	if err != nil {
		return err
	}
	defer part.Close()

	resp, err := p.AcceptImage(&service.Upload{
		Name:        part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Size:        -1,
		Body:        part,
	})
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// firstImagePart 按顺序读 multipart, 不把请求体整个读进内存.
// 返回时 part 的内容还没读, 声明类型可以先于大小校验.
func firstImagePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, service.ErrMissingFile
	}
	for {
		part, err := mr.NextPart()
		if err != nil {
			return nil, service.ErrMissingFile
		}
		if part.FormName() == "image" && part.FileName() != "" {
			return part, nil
		}
		part.Close()
	}
}

func (h *Upload) ClearImage(c *gin.Context) error {
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}
	if err := p.ClearImage(); err != nil {
		return err
	}
	response.Success(c, p.Snapshot())
	return nil
}

// Preview 预览未就绪时 ready=false, 客户端稍后再取
func (h *Upload) Preview(c *gin.Context) error {
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}
	resp, err := p.Preview()
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Upload) Drag(c *gin.Context) error {
	var req types.DragReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数格式错误")
	}
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}
	if err := p.Drag(req.Event); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Upload) Submit(c *gin.Context) error {
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}
	resp, err := p.Submit()
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
