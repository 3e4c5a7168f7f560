package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsSender fans each digest out through an SNS topic, e.g. to email subscribers.
type snsSender struct {
	topicARN string
	client   snsClient
	log      Logger
}

func newSNSSender(ctx context.Context, cfg *SNSConfig, log Logger) (queueSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sns configuration is missing")
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.AWSCredentials)
	if err != nil {
		return nil, err
	}
	return &snsSender{
		topicARN: cfg.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *snsSender) Send(ctx context.Context, evt DigestEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	attrs := make(map[string]types.MessageAttributeValue)
	for k, v := range digestAttributes(evt) {
		attrs[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}

	resp, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(s.topicARN),
		Subject:           aws.String(digestSubject(evt)),
		Message:           aws.String(string(payload)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("publish to sns: %w", err)
	}
	s.log.DebugObj("sns message published", "publisher_sns_delivery", map[string]any{
		"message_id": aws.ToString(resp.MessageId),
		"pipeline":   evt.Pipeline,
	})
	return nil
}

// digestSubject is the short subject line for notification channels.
func digestSubject(evt DigestEvent) string {
	return fmt.Sprintf("[%s] %s 소식 %d건", evt.Pipeline, evt.GeneratedAt.Format("2006-01-02"), evt.Total)
}
