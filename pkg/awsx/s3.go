package awsx

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImagePresigner issues presigned PUT URLs for uploads straight to the bucket.
type ImagePresigner interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, map[string]string, error)
}

type S3Presigner struct {
	presigner *s3.PresignClient
	bucket    string
}

func NewS3Presigner(cfg sdkaws.Config, bucket string) *S3Presigner {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// LocalStack serves buckets by path, not by virtual host.
		o.UsePathStyle = CustomEndpoint() != ""
	})
	return &S3Presigner{presigner: s3.NewPresignClient(client), bucket: bucket}
}

// PresignPut returns the URL and the headers the client must send with the PUT.
func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, map[string]string, error) {
	input := &s3.PutObjectInput{
		Bucket:      sdkaws.String(p.bucket),
		Key:         sdkaws.String(key),
		ContentType: sdkaws.String(contentType),
	}
	presigned, err := p.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string)
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return presigned.URL, headers, nil
}
