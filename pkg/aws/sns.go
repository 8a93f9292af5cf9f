package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// EventTypeAttribute is the message attribute subscribers filter on.
const EventTypeAttribute = "event_type"

// EventPublisher sends storefront events to a fixed destination.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload any) error
}

// SNSAPI is the subset of *sns.Client used by TopicPublisher.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// TopicPublisher publishes JSON events to a single SNS topic.
type TopicPublisher struct {
	client   SNSAPI
	topicArn string
}

func NewTopicPublisher(cfg sdkaws.Config, topicArn string) (*TopicPublisher, error) {
	endpoint := Endpoint("AWS_SNS_ENDPOINT")
	client := sns.NewFromConfig(cfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	})
	return NewTopicPublisherWithAPI(client, topicArn)
}

func NewTopicPublisherWithAPI(client SNSAPI, topicArn string) (*TopicPublisher, error) {
	if topicArn == "" {
		return nil, errors.New("empty topicArn")
	}
	return &TopicPublisher{client: client, topicArn: topicArn}, nil
}

func (p *TopicPublisher) PublishEvent(ctx context.Context, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: sdkaws.String(p.topicArn),
		Message:  sdkaws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			EventTypeAttribute: {DataType: sdkaws.String("String"), StringValue: sdkaws.String(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish %s to %s: %w", eventType, p.topicArn, err)
	}
	return nil
}
