package config

import "fmt"

// Redis Redis配置信息, Address 为空时使用进程内缓存
type Redis struct {
	Address  string `json:"address" yaml:"address" env:"ADDRESS"`
	Port     int    `json:"port" yaml:"port" env:"PORT"`
	Username string `json:"username" yaml:"username" env:"USERNAME"`
	Password string `json:"password" yaml:"password" env:"PASSWORD"`
	Database int    `json:"database" yaml:"database" env:"DATABASE"`
}

func (r *Redis) Enabled() bool {
	return r != nil && r.Address != ""
}

func (r *Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Address, r.Port)
}
