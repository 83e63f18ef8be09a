package types

// UploadImageResp 图片受理结果, 预览异步生成
type UploadImageResp struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// ImageInfo 面板当前持有的图片, 不含原始字节
type ImageInfo struct {
	UploadImageResp
	PreviewReady bool `json:"preview_ready"`
}

type PreviewResp struct {
	Ready   bool   `json:"ready"`
	DataURI string `json:"data_uri,omitempty"`
}

type UpdateHandleReq struct {
	Handle string `json:"handle"`
}

type UpdateHandleResp struct {
	Handle string `json:"handle"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

const (
	DragEnter = "enter"
	DragLeave = "leave"
	DragDrop  = "drop"
)

type DragReq struct {
	Event string `json:"event" binding:"required,oneof=enter leave drop"`
}
