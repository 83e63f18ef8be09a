package types

type ScanState string

const (
	ScanIdle            ScanState = "idle"
	ScanCameraActive    ScanState = "camera-active"
	ScanResultAvailable ScanState = "result-available"
)

const (
	FacingEnvironment = "environment"
	FacingUser        = "user"

	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

// DemoScanResult 模拟扫码固定返回的内容
const DemoScanResult = "https://example.com/demo-qr-content"

// CameraReq 浏览器 getUserMedia 的结果随开启请求一起上报
type CameraReq struct {
	Facing     string `json:"facing"`
	Permission string `json:"permission"`
}

type ScanSnapshot struct {
	State   ScanState `json:"state"`
	Pending bool      `json:"pending"`
	Facing  string    `json:"facing,omitempty"`
	Result  string    `json:"result,omitempty"`
}
