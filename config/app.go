package config

type App struct {
	Env   string `json:"env" yaml:"env" env:"ENV"`
	Debug bool   `json:"debug" yaml:"debug" env:"DEBUG"`
	// ReceiptSalt 回执码 hashids 盐值
	ReceiptSalt string `json:"receipt_salt" yaml:"receipt_salt" env:"RECEIPT_SALT"`
}
