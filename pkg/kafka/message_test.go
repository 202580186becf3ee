package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestParseEnvelope(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		msg := &IncomingMessage{
			Value: []byte(`{"type": "companies", "data": [{"company_id": 1, "company_name": "Initech", "headcount": 120}]}`),
		}

		err := msg.ParseEnvelope()

		require.NoError(t, err)
		require.NotNil(t, msg.Envelope)
		assert.Equal(t, models.TypeCompanies, msg.Envelope.Type)

		var records []map[string]any
		require.NoError(t, json.Unmarshal(msg.Envelope.Data, &records))
		require.Len(t, records, 1)
		assert.Equal(t, "Initech", records[0]["company_name"])
	})

	t.Run("missing type", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`{"data": []}`)}

		err := msg.ParseEnvelope()

		assert.Error(t, err)
		assert.Nil(t, msg.Envelope)
	})

	t.Run("not json", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte("not json")}

		assert.Error(t, msg.ParseEnvelope())
	})
}

func TestGetType(t *testing.T) {
	t.Run("prefers envelope type", func(t *testing.T) {
		msg := &IncomingMessage{
			Envelope: &models.IngestEnvelope{Type: models.TypePersonEmployments},
			Headers:  map[string]string{"type": models.TypeCompanies},
		}

		assert.Equal(t, models.TypePersonEmployments, msg.GetType())
	})

	t.Run("falls back to header", func(t *testing.T) {
		msg := &IncomingMessage{
			Headers: map[string]string{"type": models.TypeCompanyAcquisitions},
		}

		assert.Equal(t, models.TypeCompanyAcquisitions, msg.GetType())
	})
}
