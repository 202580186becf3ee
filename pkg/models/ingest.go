package models

import (
	"encoding/json"
	"fmt"
)

// Message type discriminators carried in an ingestion envelope.
const (
	TypeCompanies           = "companies"
	TypePersonEmployments   = "person_employments"
	TypeEmploymentEdit      = "person_employments_edit"
	TypeCompanyAcquisitions = "company_acquisitions"
)

// IngestEnvelope is the wire format of an ingestion message, shared by the
// Kafka and Redis transports: a type discriminator plus the undecoded
// payload. Data stays raw until the dispatcher knows which record shape to
// decode it into.
type IngestEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseIngestEnvelope parses a raw message body as an ingestion envelope
func ParseIngestEnvelope(value []byte) (*IngestEnvelope, error) {
	var envelope IngestEnvelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		return nil, err
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("envelope has no type")
	}
	return &envelope, nil
}
