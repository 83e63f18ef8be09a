package server

import (
	"Quickr/handler"
)

type Handlers struct {
	Panel   *handler.Panel
	QR      *handler.QR
	Scan    *handler.Scan
	Upload  *handler.Upload
	Receipt *handler.Receipt
}
