package kafka

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	Envelope *models.IngestEnvelope
}

// ParseEnvelope parses the message value as an ingestion envelope
func (m *IncomingMessage) ParseEnvelope() error {
	envelope, err := models.ParseIngestEnvelope(m.Value)
	if err != nil {
		return err
	}
	m.Envelope = envelope
	return nil
}

// GetType returns the envelope type, falling back to the "type" header for
// producers that set it there instead of in the body.
func (m *IncomingMessage) GetType() string {
	if m.Envelope != nil && m.Envelope.Type != "" {
		return m.Envelope.Type
	}
	return m.Headers["type"]
}
