package aws

import (
	"context"
	"errors"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogs struct {
	groupErr  error
	streamErr error
	putErr    error
	groups    []string
	events    []string
}

func (f *fakeLogs) CreateLogGroup(_ context.Context, in *cloudwatchlogs.CreateLogGroupInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	f.groups = append(f.groups, sdkaws.ToString(in.LogGroupName))
	return &cloudwatchlogs.CreateLogGroupOutput{}, f.groupErr
}

func (f *fakeLogs) CreateLogStream(_ context.Context, _ *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	return &cloudwatchlogs.CreateLogStreamOutput{}, f.streamErr
}

func (f *fakeLogs) PutLogEvents(_ context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	for _, e := range in.LogEvents {
		f.events = append(f.events, sdkaws.ToString(e.Message))
	}
	return &cloudwatchlogs.PutLogEventsOutput{}, nil
}

func TestLogShipper_ExistingGroupIsFine(t *testing.T) {
	fake := &fakeLogs{groupErr: &types.ResourceAlreadyExistsException{Message: sdkaws.String("exists")}}

	s, err := NewLogShipperWithAPI(context.Background(), fake, "", "storefront-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"/storefront/services"}, fake.groups)

	n, err := s.Write([]byte("{\"msg\":\"hello\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, []string{`{"msg":"hello"}`}, fake.events)
}

func TestLogShipper_StreamFailure(t *testing.T) {
	fake := &fakeLogs{streamErr: errors.New("access denied")}

	_, err := NewLogShipperWithAPI(context.Background(), fake, "/shop", "s")
	assert.ErrorContains(t, err, "access denied")
}

func TestLogShipper_PutFailureKeepsByteCount(t *testing.T) {
	fake := &fakeLogs{putErr: errors.New("throttled")}
	s, err := NewLogShipperWithAPI(context.Background(), fake, "/shop", "s")
	require.NoError(t, err)

	n, err := s.Write([]byte("line\n"))
	assert.Equal(t, 5, n)
	assert.ErrorContains(t, err, "throttled")

	n, err = s.Write([]byte("\n"))
	assert.Equal(t, 1, n)
	assert.NoError(t, err)
}
