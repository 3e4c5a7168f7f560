package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubSender publishes each digest to a Pub/Sub topic.
type pubsubSender struct {
	topic *pubsub.Topic
	log   Logger
}

func newPubSubSender(ctx context.Context, cfg *GCPConfig, log Logger) (queueSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gcp configuration is missing")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &pubsubSender{
		topic: client.Topic(cfg.Topic),
		log:   ensureLogger(log),
	}, nil
}

func (s *pubsubSender) Send(ctx context.Context, evt DigestEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	msgID, err := s.topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: digestAttributes(evt),
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to pubsub: %w", err)
	}

	s.log.DebugObj("pubsub message published", "publisher_pubsub_delivery", map[string]any{
		"message_id": msgID,
		"pipeline":   evt.Pipeline,
	})
	return nil
}
