package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// CloudWatchLogsAPI is the subset of *cloudwatchlogs.Client used by LogShipper.
type CloudWatchLogsAPI interface {
	CreateLogGroup(ctx context.Context, in *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	CreateLogStream(ctx context.Context, in *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// LogShipper is an io.Writer that forwards each write as one CloudWatch log event.
type LogShipper struct {
	client CloudWatchLogsAPI
	group  string
	stream string
	mu     sync.Mutex
}

func NewLogShipper(ctx context.Context, cfg sdkaws.Config, serviceName, group string) (*LogShipper, error) {
	endpoint := Endpoint("AWS_CLOUDWATCH_ENDPOINT")
	client := cloudwatchlogs.NewFromConfig(cfg, func(o *cloudwatchlogs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	})
	stream := fmt.Sprintf("%s-%d", serviceName, time.Now().Unix())
	return NewLogShipperWithAPI(ctx, client, group, stream)
}

// NewLogShipperWithAPI ensures the group and stream exist. Both may already be there.
func NewLogShipperWithAPI(ctx context.Context, client CloudWatchLogsAPI, group, stream string) (*LogShipper, error) {
	if group == "" {
		group = "/storefront/services"
	}
	var exists *types.ResourceAlreadyExistsException

	_, err := client.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{LogGroupName: sdkaws.String(group)})
	if err != nil && !errors.As(err, &exists) {
		return nil, fmt.Errorf("failed to create log group: %w", err)
	}
	_, err = client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  sdkaws.String(group),
		LogStreamName: sdkaws.String(stream),
	})
	if err != nil && !errors.As(err, &exists) {
		return nil, fmt.Errorf("failed to create log stream: %w", err)
	}
	return &LogShipper{client: client, group: group, stream: stream}, nil
}

// Write sends p as a single event. The byte count is always len(p) so a zap core keeps
// logging locally when shipping fails.
func (s *LogShipper) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg == "" {
		return len(p), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  sdkaws.String(s.group),
		LogStreamName: sdkaws.String(s.stream),
		LogEvents: []types.InputLogEvent{{
			Message:   sdkaws.String(msg),
			Timestamp: sdkaws.Int64(time.Now().UnixMilli()),
		}},
	})
	if err != nil {
		return len(p), fmt.Errorf("failed to put log events: %w", err)
	}
	return len(p), nil
}

func (s *LogShipper) Sync() error { return nil }
