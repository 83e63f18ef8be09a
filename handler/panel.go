package handler

import (
	"Quickr/pkg/context"
	"Quickr/pkg/response"
	"Quickr/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Panel struct {
	PanelService service.IPanelService
}

func (h *Panel) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/panels")
	g.POST("", context.Wrap(h.Open))
	g.GET("/:id", context.Wrap(h.Get))
	g.DELETE("/:id", context.Wrap(h.Close))
	g.GET("/:id/ws", context.Wrap(h.Events))
}

// Open 打开页面时创建面板
func (h *Panel) Open(c *gin.Context) error {
	p := h.PanelService.Open()
	response.Success(c, p.Snapshot())
	return nil
}

func (h *Panel) Get(c *gin.Context) error {
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, p.Snapshot())
	return nil
}

// Close 页面关闭, 释放摄像头并停止所有定时器
func (h *Panel) Close(c *gin.Context) error {
	if err := h.PanelService.Close(c.Param("id")); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

// Events 推送面板快照, 面板关闭后发送 closed 事件并断开
func (h *Panel) Events(c *gin.Context) error {
	p, err := h.PanelService.Get(c.Param("id"))
	if err != nil {
		return err
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写过错误响应
		return nil
	}
	defer conn.Close()

	events, cancel := p.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			// 客户端不需要发消息, 读只用来感知断开和心跳
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			conn.SetReadDeadline(time.Now().Add(wsPongWait))
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "panel closed"))
				return nil
			}
			if err := conn.WriteJSON(ev); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return nil
			}
		case <-done:
			return nil
		}
	}
}
