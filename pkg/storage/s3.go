// Package storage чтение и запись объектов в S3-совместимом хранилище
// (AWS S3, MinIO). Адреса объектов задаются как s3://bucket/key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Scheme префикс адреса объекта
const Scheme = "s3://"

const defaultRegion = "us-east-1"

// ErrInvalidURI адрес не в формате s3://bucket/key
var ErrInvalidURI = errors.New("invalid s3 uri")

// Config параметры подключения к хранилищу
type Config struct {
	// Endpoint адрес S3-совместимого сервера (MinIO), пусто = AWS
	Endpoint string `yaml:"endpoint" env:"DT_S3_ENDPOINT"`

	Region    string `yaml:"region" env:"DT_S3_REGION"`
	AccessKey string `yaml:"access_key" env:"DT_S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"DT_S3_SECRET_KEY"`

	// UsePathStyle адресация bucket в пути, нужна для MinIO
	UsePathStyle bool `yaml:"use_path_style"`
}

// URI адрес объекта
type URI struct {
	Bucket string
	Key    string
}

// String s3://bucket/key
func (u URI) String() string {
	return Scheme + u.Bucket + "/" + u.Key
}

// Ext расширение ключа в нижнем регистре: ".xlsx"
func (u URI) Ext() string {
	return strings.ToLower(path.Ext(u.Key))
}

// IsURI проверяет, что строка это адрес объекта
func IsURI(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), Scheme)
}

// ParseURI разбирает s3://bucket/key
func ParseURI(s string) (URI, error) {
	if !IsURI(s) {
		return URI{}, fmt.Errorf("%w: %q has no %s prefix", ErrInvalidURI, s, Scheme)
	}

	bucket, key, ok := strings.Cut(s[len(Scheme):], "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return URI{}, fmt.Errorf("%w: %q must be %sbucket/key", ErrInvalidURI, s, Scheme)
	}
	return URI{Bucket: bucket, Key: key}, nil
}

// Client клиент хранилища
type Client struct {
	s3         *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
}

// New создает клиента. Без ключей доступа используется стандартная цепочка
// AWS (переменные окружения, ~/.aws, роль инстанса).
func New(ctx context.Context, cfg Config) (*Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Client{
		s3:         client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
	}, nil
}

// Upload записывает объект. Большие объекты загружаются частями.
func (c *Client) Upload(ctx context.Context, uri URI, body io.Reader) error {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(uri.Bucket),
		Key:    aws.String(uri.Key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", uri, err)
	}
	return nil
}

// Download читает объект целиком
func (c *Client) Download(ctx context.Context, uri URI) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := c.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(uri.Bucket),
		Key:    aws.String(uri.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", uri, err)
	}
	return buf.Bytes(), nil
}
