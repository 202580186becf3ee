package redis

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// EnvelopeHandler processes incoming ingestion envelopes
type EnvelopeHandler func(ctx context.Context, envelope *models.IngestEnvelope) error

// Subscriber consumes ingestion envelopes from a Redis pub/sub channel.
// Unlike the Kafka transport there are no offsets: a message missed while
// disconnected is gone, which is acceptable for the deployments that pick
// this transport.
type Subscriber struct {
	client  *Client
	channel string
	logger  ectologger.Logger
	handler EnvelopeHandler
	pubsub  *redis.PubSub
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	running atomic.Bool
}

// NewSubscriber creates a new pub/sub subscriber
func NewSubscriber(client *Client, channel string, logger ectologger.Logger, handler EnvelopeHandler) *Subscriber {
	return &Subscriber{
		client:  client,
		channel: channel,
		logger:  logger,
		handler: handler,
	}
}

// GetName returns the dependency name
func (s *Subscriber) GetName() string {
	return "redis-subscriber"
}

// Start subscribes to the channel and begins consuming messages
func (s *Subscriber) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.pubsub = s.client.Redis().Subscribe(ctx, s.channel)

	// Wait for the subscription to be confirmed before reporting started.
	if _, err := s.pubsub.Receive(ctx); err != nil {
		cancel()
		return err
	}

	s.running.Store(true)
	s.wg.Add(1)
	go s.consumeLoop(ctx)

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"channel": s.channel,
	}).Info("Redis subscriber started")
	return nil
}

// Stop gracefully stops the subscriber
func (s *Subscriber) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	var err error
	if s.pubsub != nil {
		err = s.pubsub.Close()
	}
	s.wg.Wait()
	return err
}

// Running reports whether the consume loop is alive. Goes false once the
// loop exits, whether from Stop or a closed channel.
func (s *Subscriber) Running() bool {
	return s.running.Load()
}

func (s *Subscriber) consumeLoop(ctx context.Context) {
	defer s.wg.Done()
	defer s.running.Store(false)

	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.logger.WithContext(ctx).Info("Subscriber loop stopping")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.processMessage(ctx, msg)
		}
	}
}

// processMessage hands one message to the handler; failures are logged and
// dropped so one bad message cannot stall the channel.
func (s *Subscriber) processMessage(ctx context.Context, msg *redis.Message) {
	ctx, span := tracing.StartSpan(ctx, "redis.Subscriber.processMessage")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"channel": msg.Channel,
	})

	envelope, err := models.ParseIngestEnvelope([]byte(msg.Payload))
	if err != nil {
		log.WithError(err).Error("Failed to parse message envelope")
		return
	}

	if err := s.handler(ctx, envelope); err != nil {
		log.WithError(err).WithFields(map[string]any{
			"message_type": envelope.Type,
		}).Error("Failed to process message")
	}
}
