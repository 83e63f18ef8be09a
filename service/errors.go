package service

import (
	"Quickr/pkg/handle"
	"Quickr/pkg/qrlink"
	"Quickr/pkg/response"
	"Quickr/types"
	"errors"
)

// 面向用户的提示, 每个都会终止本次操作, 不做重试
var (
	ErrPanelNotFound = response.NewError(40400, "panel not found")
	ErrPanelClosed   = response.NewError(41000, "panel has been closed")

	ErrEmptyText   = response.NewError(40001, "enter some text to generate a QR code")
	ErrTextTooLong = response.NewError(40002, "text must be 500 characters or fewer")
	ErrQRUpstream  = response.NewError(50201, "QR image service is unavailable")

	ErrCameraDenied      = response.NewError(40301, "camera access was denied")
	ErrCameraUnavailable = response.NewError(50301, "camera could not be started")
	ErrScanTransition    = response.NewError(40901, "that action is not available right now")

	ErrMissingFile   = response.NewError(40010, "choose an image file")
	ErrNotImage      = response.NewError(41501, "only image files are accepted")
	ErrImageTooLarge = response.NewError(41301, "image is too large")

	ErrMissingImage       = response.NewError(40011, "add an image before submitting")
	ErrHandleEmpty        = response.NewError(40020, "enter a handle")
	ErrHandleTooShort     = response.NewError(40021, "handle must be at least 5 characters")
	ErrHandleTooLong      = response.NewError(40022, "handle must be at most 32 characters")
	ErrHandleInvalidChars = response.NewError(40023, "handle may only contain letters, numbers and underscores")
	ErrSubmitBusy         = response.NewError(40902, "a submission is already in progress")
	ErrSendFailed         = response.NewError(50202, "submission could not be delivered, try again")

	ErrReceiptNotFound = response.NewError(40401, "receipt not found")
	ErrReceiptDisabled = response.NewError(40402, "receipt lookup is not enabled")
)

// handleNotice 把 handle 包的校验错误转换成具体的提示
func handleNotice(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, handle.ErrEmpty):
		return ErrHandleEmpty
	case errors.Is(err, handle.ErrTooShort):
		return ErrHandleTooShort
	case errors.Is(err, handle.ErrTooLong):
		return ErrHandleTooLong
	case errors.Is(err, handle.ErrInvalidChars):
		return ErrHandleInvalidChars
	}
	return err
}

func textNotice(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, qrlink.ErrEmptyText):
		return ErrEmptyText
	case errors.Is(err, qrlink.ErrTextTooLong):
		return ErrTextTooLong
	}
	return err
}

func toNotice(err error) *types.Notice {
	var be *response.BizError
	if errors.As(err, &be) {
		return &types.Notice{Code: be.Code, Msg: be.Msg}
	}
	return &types.Notice{Code: 500, Msg: err.Error()}
}
