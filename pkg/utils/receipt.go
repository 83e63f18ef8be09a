package utils

import (
	"fmt"

	"github.com/speps/go-hashids/v2"
)

// Receipt 把提交 ID 编码成对外展示的回执码
type Receipt struct {
	h *hashids.HashID
}

func NewReceipt(salt string) (*Receipt, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 12
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("init hashids: %w", err)
	}
	return &Receipt{h: h}, nil
}

func (r *Receipt) Encode(id int64) (string, error) {
	return r.h.EncodeInt64([]int64{id})
}

func (r *Receipt) Decode(code string) (int64, error) {
	ids, err := r.h.DecodeInt64WithError(code)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("malformed receipt %q", code)
	}
	return ids[0], nil
}
