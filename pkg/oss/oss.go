package oss

import (
	"Orion_Tube/pkg/config"
	"Orion_Tube/pkg/logger"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// UploadResult 上传结果：对外访问地址，以及媒体时长（秒，图片为0）
type UploadResult struct {
	URL      string
	Duration float64
}

// MinioUploader 把本地临时文件传到对象存储，传完删除本地文件
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioUploader(cfg config.MinioConfig) (*MinioUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}
	return &MinioUploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket 检查存储桶是否存在，不存在则创建
func (u *MinioUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket error: %w", err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket error: %w", err)
	}
	return nil
}

// Upload 上传本地文件：1、视频先用ffprobe取时长 2、按日期+uuid生成对象名上传 3、删除本地临时文件
func (u *MinioUploader) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	if localPath == "" {
		return nil, fmt.Errorf("empty local path")
	}
	defer os.Remove(localPath)

	ext := strings.ToLower(filepath.Ext(localPath))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var duration float64
	if strings.HasPrefix(contentType, "video/") {
		d, err := ProbeDuration(localPath)
		if err != nil {
			// 取不到时长不影响上传，时长记为0
			logger.Log.WithError(err).WithField("path", localPath).Warn("获取视频时长失败")
		}
		duration = d
	}

	objectName := fmt.Sprintf("%s/%s%s", time.Now().Format("2006/01/02"), uuid.NewString(), ext)
	if _, err := u.client.FPutObject(ctx, u.bucket, objectName, localPath, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return nil, fmt.Errorf("put object %s: %w", objectName, err)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, objectName),
		Duration: duration,
	}, nil
}

// ProbeDuration 用ffprobe读取媒体时长，返回秒
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, err
	}
	return ParseProbeDuration(out)
}

// ParseProbeDuration 从ffprobe的JSON输出里取format.duration
func ParseProbeDuration(probeJSON string) (float64, error) {
	d := gjson.Get(probeJSON, "format.duration")
	if !d.Exists() {
		return 0, fmt.Errorf("format.duration not found in probe output")
	}
	return d.Float(), nil
}
