package handler

import (
	"Quickr/pkg/context"
	"Quickr/pkg/response"
	"Quickr/service"

	"github.com/gin-gonic/gin"
)

type Receipt struct {
	ReceiptService service.IReceiptService
}

func (h *Receipt) RegisterRouter(r gin.IRouter) {
	r.GET("/v1/receipts/:code", context.Wrap(h.Lookup))
}

// Lookup 归档模式下按回执码查看提交
func (h *Receipt) Lookup(c *gin.Context) error {
	resp, err := h.ReceiptService.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
