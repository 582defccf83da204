// utils/s3.go
package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client
var s3Bucket string

// BackupEnabled reports whether the optional question-bank backup target is
// configured. Without it the server simply keeps everything local.
func BackupEnabled() bool {
	return os.Getenv("BACKUP_BUCKET_NAME") != "" && os.Getenv("BACKUP_ACCESS_KEY_ID") != ""
}

// InitBackupStorage configures the S3-compatible client (R2 works too) used
// for question-bank snapshots.
func InitBackupStorage() error {
	accountID := os.Getenv("BACKUP_ACCOUNT_ID")
	accessKeyID := os.Getenv("BACKUP_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("BACKUP_ACCESS_KEY_SECRET")
	s3Bucket = os.Getenv("BACKUP_BUCKET_NAME")

	endpoint := os.Getenv("BACKUP_ENDPOINT")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load backup storage config: %w", err)
	}

	s3Client = s3.NewFromConfig(cfg)
	return nil
}

// UploadJSON marshals payload and stores it under key in the backup bucket.
func UploadJSON(ctx context.Context, key string, payload any) error {
	if s3Client == nil {
		return fmt.Errorf("backup storage not initialized")
	}

	data, err := json.MarshalIndent(payload, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup payload: %w", err)
	}

	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
