package handler

import (
	"Quickr/config"
	"Quickr/dao/cache"
	"Quickr/pkg/qrlink"
	"Quickr/pkg/utils"
	"Quickr/service"
	"bytes"
	stdctx "context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testServer struct {
	engine *gin.Engine
	panels service.IPanelService
}

func newTestServer(t *testing.T, qrEndpoint string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := &config.Config{
		Upload: &config.Upload{MaxBytes: 1 << 20},
		Panel:  &config.Panel{IdleTTL: time.Hour, SweepInterval: time.Minute},
	}
	receipt, err := utils.NewReceipt("handler-test")
	if err != nil {
		t.Fatalf("NewReceipt() error = %v", err)
	}
	deps := &service.PanelDeps{
		Builder:    qrlink.NewBuilder(qrEndpoint, 300),
		Camera:     service.NewLeaseCamera(4, time.Second, false),
		Intake:     &service.Intake{MaxBytes: conf.Upload.MaxBytes},
		Sender:     service.DelaySender{},
		Receipt:    receipt,
		Clock:      service.RealClock(),
		SendDelay:  time.Hour,
		ResetDelay: time.Hour,
	}
	panels := service.NewPanelService(conf, deps)
	qr := &service.QRService{
		Builder: deps.Builder,
		Storage: cache.NewLocalImageStorage(time.Minute),
		Client:  http.DefaultClient,
	}

	r := gin.New()
	api := r.Group("/api")
	(&Panel{PanelService: panels}).RegisterRouter(api)
	(&QR{PanelService: panels, QRService: qr}).RegisterRouter(api)
	(&Scan{PanelService: panels}).RegisterRouter(api)
	(&Upload{PanelService: panels}).RegisterRouter(api)
	(&Receipt{ReceiptService: &service.ReceiptService{}}).RegisterRouter(api)

	// ctx 已结束时 Run 直接关闭所有面板
	t.Cleanup(func() {
		ctx, cancel := stdctx.WithCancel(stdctx.Background())
		cancel()
		panels.Run(ctx)
	})
	return &testServer{engine: r, panels: panels}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func (s *testServer) open(t *testing.T) string {
	t.Helper()
	_, env := s.do(t, http.MethodPost, "/api/v1/panels", nil)
	if env.Code != 0 {
		t.Fatalf("open panel: %+v", env)
	}
	var snap struct {
		ID string `json:"id"`
	}
	json.Unmarshal(env.Data, &snap)
	return snap.ID
}

func uploadRequest(t *testing.T, path string, parts ...[3]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, p[0]))
		h.Set("Content-Type", p[1])
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart() error = %v", err)
		}
		part.Write([]byte(p[2]))
	}
	w.Close()
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
