package handler

import (
	"Quickr/pkg/context"
	"Quickr/pkg/response"
	"Quickr/service"
	"Quickr/types"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QR struct {
	PanelService service.IPanelService
	QRService    service.IQRService
}

func (h *QR) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/panels")
	g.POST("/:id/qr", context.Wrap(h.Generate))
	g.DELETE("/:id/qr", context.Wrap(h.Clear))

	r.GET("/v1/qr/download", context.Wrap(h.Download))
}

func (h *QR) Generate(c *gin.Context) error {
	var req types.GenerateQRReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, "参数格式错误")
	}
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}
	resp, err := p.Generate(req.Text)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *QR) Clear(c *gin.Context) error {
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}
	if err := p.ClearQR(); err != nil {
		return err
	}
	response.Success(c, p.Snapshot())
	return nil
}

// Download 以附件形式返回生成的图片, 文件名固定
func (h *QR) Download(c *gin.Context) error {
	img, contentType, err := h.QRService.Download(c.Request.Context(), c.Query("text"))
	if err != nil {
		return err
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, types.DownloadFilename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, img)
	return nil
}
