package nats

import (
	"encoding/json"
	"testing"

	"physio-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectPerEventType(t *testing.T) {
	assert.Equal(t, "phi.ENCOUNTER_FINALIZED", Subject(events.EncounterFinalized))
}

func TestDecodeEncounterEventRoundTripsPublishedBody(t *testing.T) {
	sent := events.NewEncounterEvent(events.EncounterCreated, "enc-1", "user-1", "shoulder")
	body, err := json.Marshal(sent)
	require.NoError(t, err)

	got, err := decodeEncounterEvent(body)
	require.NoError(t, err)
	assert.Equal(t, sent.Key(), got.Key())
	assert.Equal(t, "shoulder", got.TemplateType)
}

func TestDecodeEncounterEventRejectsForeignMessages(t *testing.T) {
	_, err := decodeEncounterEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = decodeEncounterEvent([]byte(`{"type":"ENCOUNTER_CREATED"}`))
	assert.Error(t, err)
}
