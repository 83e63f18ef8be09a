package config

type OssConfig struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint" env:"ENDPOINT"`
	Region          string `json:"region" yaml:"region" env:"REGION"`
	Bucket          string `json:"bucket" yaml:"bucket" env:"BUCKET"`
	AccessKeyID     string `json:"ak" yaml:"ak" env:"AK"`
	AccessKeySecret string `json:"sk" yaml:"sk" env:"SK"`
	// Prefix 对象 key 前缀
	Prefix string `json:"prefix" yaml:"prefix" env:"PREFIX"`
}

