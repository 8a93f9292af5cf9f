package aws

import (
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client creates an S3 client. Path-style addressing is enabled whenever a
// custom endpoint is configured so LocalStack and MinIO work without DNS tricks.
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	endpoint := Endpoint("AWS_S3_ENDPOINT")
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}
