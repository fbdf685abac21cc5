package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/samvad-hq/digest-merchant-sdk/internal/domain"
)

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSNSPublisherPublishesCheckoutEvent(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      noopLogger{},
	}

	evt := NewCheckoutEvent(domain.Checkout{ID: "co9", Service: "whalestack"})
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	if got := aws.ToString(client.input.MessageAttributes["event_id"].StringValue); got != evt.ID {
		t.Fatalf("event_id attribute = %q, want %q", got, evt.ID)
	}
	if msg := aws.ToString(client.input.Message); !strings.Contains(msg, `"type":"checkout.created"`) {
		t.Fatalf("Message missing event type: %s", msg)
	}
}

func TestSNSPublisherPublishError(t *testing.T) {
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:::topic",
		client:   &fakeSNSClient{err: errors.New("boom")},
		log:      noopLogger{},
	}

	if err := pub.Publish(context.Background(), NewCheckoutEvent(domain.Checkout{ID: "co9"})); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestNewSNSPublisherWithStaticCredentials(t *testing.T) {
	pub, err := newSNSPublisher(context.Background(), PublisherConfig{
		ID:   "topic",
		Type: TypeSNS,
		SNS: &SNSPublisherConfig{
			TopicARN: "arn:aws:sns:us-east-1:000000000000:checkouts",
			Region:   "us-east-1",
			Endpoint: "http://localhost:4566",
			Credentials: &AWSCredentials{
				AccessKeyID:     "test",
				SecretAccessKey: "test",
			},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newSNSPublisher: %v", err)
	}
	if pub.Type() != TypeSNS || pub.ID() != "topic" {
		t.Fatalf("unexpected publisher %s/%s", pub.Type(), pub.ID())
	}
}
