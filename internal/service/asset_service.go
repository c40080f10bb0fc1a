package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/autoposterhub/autoposter/configs"
	"github.com/autoposterhub/autoposter/pkg/utils"
)

// AssetService stores generated post images in R2 so share instructions can
// point at a real downloadable URL instead of an embedded data URL.
type AssetService struct {
	config cfg.Config
}

func NewAssetService(cfg cfg.Config) *AssetService {
	if cfg.R2.AccountID == "" || cfg.R2.BucketName == "" {
		return nil
	}
	return &AssetService{config: cfg}
}

func (a *AssetService) client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(a.config.R2.AccessKey, a.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", a.config.R2.AccountID))
	}), nil
}

// UploadImage decodes a data URL and PUTs the bytes under the given key.
// Returns the public object URL.
func (a *AssetService) UploadImage(ctx context.Context, key, dataURL string) (string, error) {
	mimeType, data, err := utils.DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s.%s", key, utils.ExtensionForMIME(mimeType))

	r2Client, err := a.client(ctx)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.config.R2.BucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	}

	if _, err := r2Client.PutObject(ctx, input); err != nil {
		slog.Error(err.Error())
		return "", err
	}

	return fmt.Sprintf("%s/%s", a.config.R2.PublicURL, objectKey), nil
}
