package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewCamera,
	NewIntake,
	NewOssService,
	NewSender,
	NewPanelDeps,
	NewPanelService,
	NewQRService,
	NewReceiptService,
)
