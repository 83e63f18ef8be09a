package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App    *App       `json:"app" yaml:"app" envPrefix:"APP_"`
	Server *Server    `json:"server" yaml:"server" envPrefix:"SERVER_"`
	Redis  *Redis     `json:"redis" yaml:"redis" envPrefix:"REDIS_"`
	MySQL  *MySQL     `json:"mysql" yaml:"mysql" envPrefix:"MYSQL_"`
	Oss    *OssConfig `json:"oss" yaml:"oss" envPrefix:"OSS_"`
	QR     *QR        `json:"qr" yaml:"qr" envPrefix:"QR_"`
	Upload *Upload    `json:"upload" yaml:"upload" envPrefix:"UPLOAD_"`
	Camera *Camera    `json:"camera" yaml:"camera" envPrefix:"CAMERA_"`
	Submit *Submit    `json:"submit" yaml:"submit" envPrefix:"SUBMIT_"`
	Panel  *Panel     `json:"panel" yaml:"panel" envPrefix:"PANEL_"`
}

type Server struct {
	Http int `json:"http" yaml:"http" env:"HTTP"`
	// MaxConns 同时保持的连接数上限, websocket 长连接也计入
	MaxConns int `json:"max_conns" yaml:"max_conns" env:"MAX_CONNS"`
}

// EnvPrefix 环境变量覆盖前缀, 例如 QUICKR_REDIS_ADDRESS
const EnvPrefix = "QUICKR_"

// New 读取配置文件, 失败直接 panic
func New(filename string) *Config {
	conf, err := Load(filename)
	if err != nil {
		panic(fmt.Sprintf("解析配置 %s 错误: %v", filename, err))
	}
	return conf
}

// Load reads the yaml file (a missing file is not an error), applies
// QUICKR_* environment overrides and fills defaults.
func Load(filename string) (*Config, error) {
	var conf Config

	content, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, &conf); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", filename, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	conf.ensureSections()
	if err := env.ParseWithOptions(&conf, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	conf.applyDefaults()

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}

func (c *Config) ensureSections() {
	if c.App == nil {
		c.App = &App{}
	}
	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Redis == nil {
		c.Redis = &Redis{}
	}
	if c.MySQL == nil {
		c.MySQL = &MySQL{}
	}
	if c.Oss == nil {
		c.Oss = &OssConfig{}
	}
	if c.QR == nil {
		c.QR = &QR{}
	}
	if c.Upload == nil {
		c.Upload = &Upload{}
	}
	if c.Camera == nil {
		c.Camera = &Camera{}
	}
	if c.Submit == nil {
		c.Submit = &Submit{}
	}
	if c.Panel == nil {
		c.Panel = &Panel{}
	}
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.ReceiptSalt == "" {
		c.App.ReceiptSalt = "quickr"
	}
	if c.Server.Http == 0 {
		c.Server.Http = 8080
	}
	if c.Server.MaxConns == 0 {
		c.Server.MaxConns = 1024
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	c.QR.applyDefaults()
	c.Upload.applyDefaults()
	c.Camera.applyDefaults()
	c.Submit.applyDefaults()
	c.Panel.applyDefaults()
}

// Validate 校验配置是否可用
func (c *Config) Validate() error {
	if c.Server.Http < 0 || c.Server.Http > 65535 {
		return fmt.Errorf("server.http out of range: %d", c.Server.Http)
	}
	if c.Server.MaxConns < 0 {
		return errors.New("server.max_conns must not be negative")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("upload.max_bytes must be positive")
	}
	if c.Camera.MaxStreams <= 0 {
		return errors.New("camera.max_streams must be positive")
	}
	switch c.Submit.Sink {
	case SinkDelay:
	case SinkArchive:
		if c.MySQL.Host == "" {
			return errors.New("submit.sink=archive requires mysql.host")
		}
		if c.Oss.Bucket == "" {
			return errors.New("submit.sink=archive requires oss.bucket")
		}
	default:
		return fmt.Errorf("unknown submit.sink %q", c.Submit.Sink)
	}
	return nil
}
