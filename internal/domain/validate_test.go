package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("valid candidate passes through", func(t *testing.T) {
		rec, err := Validate(Candidate{
			OccurrenceTime: "2025-09-06 14:00",
			Location:       "São Paulo",
			IncidentType:   "falha no servidor",
			Impact:         "afetou o faturamento",
		})
		require.NoError(t, err)
		assert.Equal(t, "2025-09-06 14:00", rec.OccurrenceTime)
		assert.Equal(t, "São Paulo", rec.Location)
		assert.Equal(t, "falha no servidor", rec.IncidentType)
		assert.Equal(t, "afetou o faturamento", rec.Impact)
	})

	t.Run("missing incident type is rejected", func(t *testing.T) {
		_, err := Validate(Candidate{OccurrenceTime: "2025-09-06 14:00"})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "incident_type", vErr.Field)
	})

	t.Run("whitespace-only incident type is rejected", func(t *testing.T) {
		_, err := Validate(Candidate{IncidentType: "   "})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "incident_type", vErr.Field)
	})

	t.Run("malformed time is cleared not reported", func(t *testing.T) {
		rec, err := Validate(Candidate{
			OccurrenceTime: "yesterday at 2pm",
			IncidentType:   "server failure",
		})
		require.NoError(t, err)
		assert.Empty(t, rec.OccurrenceTime)
	})

	t.Run("empty time is allowed", func(t *testing.T) {
		rec, err := Validate(Candidate{IncidentType: "falha no banco de dados"})
		require.NoError(t, err)
		assert.Empty(t, rec.OccurrenceTime)
	})

	t.Run("fields are trimmed", func(t *testing.T) {
		rec, err := Validate(Candidate{
			IncidentType: "  network outage  ",
			Location:     "  Recife ",
		})
		require.NoError(t, err)
		assert.Equal(t, "network outage", rec.IncidentType)
		assert.Equal(t, "Recife", rec.Location)
	})
}

func TestValidateStrict(t *testing.T) {
	t.Run("malformed time is reported", func(t *testing.T) {
		_, err := ValidateStrict(Candidate{
			OccurrenceTime: "06/09/2025 14:00",
			IncidentType:   "falha no servidor",
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "occurrence_time", vErr.Field)
	})

	t.Run("non-round-tripping time is reported", func(t *testing.T) {
		// Parses under the layout but does not format back to itself.
		_, err := ValidateStrict(Candidate{
			OccurrenceTime: "2025-9-06 14:00",
			IncidentType:   "falha no servidor",
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "occurrence_time", vErr.Field)
	})

	t.Run("canonical time passes", func(t *testing.T) {
		rec, err := ValidateStrict(Candidate{
			OccurrenceTime: "2025-09-06 14:00",
			IncidentType:   "falha no servidor",
		})
		require.NoError(t, err)
		assert.Equal(t, "2025-09-06 14:00", rec.OccurrenceTime)
	})

	t.Run("empty time passes", func(t *testing.T) {
		rec, err := ValidateStrict(Candidate{IncidentType: "falha no servidor"})
		require.NoError(t, err)
		assert.Empty(t, rec.OccurrenceTime)
	})

	t.Run("missing incident type is rejected", func(t *testing.T) {
		_, err := ValidateStrict(Candidate{OccurrenceTime: "2025-09-06 14:00"})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "incident_type", vErr.Field)
	})
}
