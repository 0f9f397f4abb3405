package config

import "time"

type Config struct {
	// General configuration
	Env string `yaml:"env" mapstructure:"env" validate:"required"`
	Log Log    `yaml:"log" mapstructure:"log" validate:"required"`

	// Infrastructure components
	Server  Server  `yaml:"server" mapstructure:"server" validate:"required"`
	Storage Storage `yaml:"storage" mapstructure:"storage" validate:"required"`
	Events  Events  `yaml:"events" mapstructure:"events"`
}

type Log struct {
	Level     string `yaml:"level" mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format    string `yaml:"format" mapstructure:"format" validate:"oneof=json text"`
	AddSource bool   `yaml:"addSource" mapstructure:"addSource"`
}

type Server struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port" validate:"required,gte=1,lte=65535"`
	ReadTimeout  time.Duration `yaml:"readTimeout" mapstructure:"readTimeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"writeTimeout" mapstructure:"writeTimeout" validate:"gte=0"`
}

type Storage struct {
	// Endpoint points at an S3-compatible store (MinIO et al.); empty means
	// plain AWS S3.
	Endpoint        string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,url"`
	Region          string `yaml:"region" mapstructure:"region"`
	// Static credentials are for S3-compatible stores; leave both empty to
	// use the SDK's default credential chain.
	AccessKeyID     string `yaml:"accessKeyID" mapstructure:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey" mapstructure:"secretAccessKey"`
	Bucket          string `yaml:"bucket" mapstructure:"bucket" validate:"required"`
	UsePathStyle    bool   `yaml:"usePathStyle" mapstructure:"usePathStyle"`
	// PresignTTL is the validity window of issued URLs, in seconds.
	PresignTTL int64 `yaml:"presignTTL" mapstructure:"presignTTL" validate:"gte=1"`
	// SingleActiveUpload rejects a second multipart create for a key with a
	// live upload.
	SingleActiveUpload bool `yaml:"singleActiveUpload" mapstructure:"singleActiveUpload"`
}

type Events struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path" validate:"required_if=Enabled true"`
}
