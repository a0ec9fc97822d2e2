package worker

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// FrameSink consumes one raw feed frame from a named source.
type FrameSink func(ctx context.Context, source string, raw []byte)

// RedisFeedSource subscribes to the scanner pub/sub channel and hands every
// message to the sink. Gates that publish through Redis instead of holding a
// websocket land on the same normalize path as everything else.
type RedisFeedSource struct {
	client  *redis.Client
	channel string
	sink    FrameSink
	logger  *zap.Logger
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewRedisFeedSource creates a source but does not start it.
func NewRedisFeedSource(client *redis.Client, channel string, sink FrameSink, logger *zap.Logger) *RedisFeedSource {
	return &RedisFeedSource{
		client:  client,
		channel: channel,
		sink:    sink,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start begins the background receive loop. It exits when ctx is cancelled
// or Stop is called. With no client or channel configured the source is a
// no-op.
func (s *RedisFeedSource) Start(ctx context.Context) {
	if s.client == nil || s.channel == "" {
		s.logger.Info("redis feed source disabled")
		close(s.done)
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
	s.logger.Info("redis feed source started", zap.String("channel", s.channel))
}

// Stop signals the loop to exit and waits for it to finish.
func (s *RedisFeedSource) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *RedisFeedSource) loop(ctx context.Context) {
	defer close(s.done)

	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.sink(ctx, "redis", []byte(msg.Payload))
		}
	}
}
