package types

type GenerateQRReq struct {
	Text string `json:"text"`
}

type GenerateQRResp struct {
	Text  string `json:"text"`
	QRURL string `json:"qr_url"`
}

// DownloadFilename 下载生成图片时固定的文件名
const DownloadFilename = "qrcode.png"
