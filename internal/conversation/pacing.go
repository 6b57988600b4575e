package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/bellavida/clinic-concierge/internal/observability/metrics"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

// Typing cadence: each chunk waits base time plus a per-character cost,
// capped so long sentences don't stall the conversation.
const (
	chunkDelimiter    = ". "
	chunkBaseDelay    = 100 * time.Millisecond
	chunkPerCharDelay = 50 * time.Millisecond
	chunkMaxDelay     = 10 * time.Second
)

// Messenger delivers one outbound text to a recipient.
type Messenger interface {
	Send(ctx context.Context, to, text string) error
}

// Pacer splits a reply into sentence-like chunks and delivers them
// sequentially with human-typing delays. Sequential sends make chunk order
// a guarantee; a failed chunk is logged and the rest still go out.
type Pacer struct {
	messenger Messenger
	sleep     func(time.Duration)
	metrics   *metrics.ConversationMetrics
	logger    *logging.Logger
}

// NewPacer creates a pacer over the given messenger. metrics may be nil.
func NewPacer(messenger Messenger, m *metrics.ConversationMetrics, logger *logging.Logger) *Pacer {
	if messenger == nil {
		panic("conversation: messenger cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pacer{
		messenger: messenger,
		sleep:     time.Sleep,
		metrics:   m,
		logger:    logger,
	}
}

// Deliver sends the reply to the recipient chunk by chunk.
func (p *Pacer) Deliver(ctx context.Context, to, reply string) {
	for _, chunk := range splitReply(reply) {
		p.sleep(chunkDelay(chunk))
		if err := p.messenger.Send(ctx, to, chunk); err != nil {
			p.logger.Error("failed to deliver reply chunk", "to", to, "error", err)
			p.metrics.ObserveOutboundChunk("failed")
			continue
		}
		p.metrics.ObserveOutboundChunk("sent")
	}
}

func splitReply(reply string) []string {
	parts := strings.Split(reply, chunkDelimiter)
	chunks := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, part)
	}
	return chunks
}

func chunkDelay(chunk string) time.Duration {
	delay := chunkBaseDelay + time.Duration(len(chunk))*chunkPerCharDelay
	if delay > chunkMaxDelay {
		delay = chunkMaxDelay
	}
	return delay
}
