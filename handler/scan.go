package handler

import (
	"Quickr/pkg/context"
	"Quickr/pkg/response"
	"Quickr/service"
	"Quickr/types"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Scan struct {
	PanelService service.IPanelService
}

func (h *Scan) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/panels/:id/scan")
	g.POST("/start", context.Wrap(h.Start))
	g.POST("/simulate", context.Wrap(h.action((*service.Panel).SimulateScan)))
	g.POST("/stop", context.Wrap(h.action((*service.Panel).StopScan)))
	g.POST("/clear", context.Wrap(h.action((*service.Panel).ClearScan)))
}

// Start 请求体携带浏览器的授权结果, 空请求体视为未授权
func (h *Scan) Start(c *gin.Context) error {
	var req types.CameraReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return response.NewError(http.StatusBadRequest, "参数格式错误")
	}
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}
	scan, err := p.StartScan(c.Request.Context(), req)
	if err != nil {
		return err
	}
	response.Success(c, scan)
	return nil
}

func (h *Scan) action(fn func(*service.Panel) (types.ScanSnapshot, error)) func(*gin.Context) error {
	return func(c *gin.Context) error {
		p, err := h.PanelService.Get(c.Param("id"))
		if err != nil {
			return err
		}
		scan, err := fn(p)
		if err != nil {
			return err
		}
		response.Success(c, scan)
		return nil
	}
}
