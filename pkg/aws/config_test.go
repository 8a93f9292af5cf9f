package aws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint_PrefersServiceSpecific(t *testing.T) {
	t.Setenv("AWS_ENDPOINT", "http://localstack:4566")
	t.Setenv("AWS_S3_ENDPOINT", "")
	assert.Equal(t, "http://localstack:4566", Endpoint("AWS_S3_ENDPOINT"))

	t.Setenv("AWS_S3_ENDPOINT", "http://minio:9000")
	assert.Equal(t, "http://minio:9000", Endpoint("AWS_S3_ENDPOINT"))
}

func TestLoadAWSConfig_StaticCredentials(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-2")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg, err := LoadAWSConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eu-west-2", cfg.Region)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", creds.AccessKeyID)
}
