package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncounterEventCarriesIdentifiersOnly(t *testing.T) {
	ev := NewEncounterEvent(EncounterCreated, "enc-1", "user-1", "knee")
	assert.Equal(t, EncounterCreated, ev.EventType())
	assert.False(t, ev.Timestamp().IsZero())

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.ElementsMatch(t,
		[]string{"type", "encounter_id", "user_id", "template_type", "occurred_at"},
		keys(fields))
	assert.Equal(t, "enc-1", fields["encounter_id"])
}

func TestEncounterEventKeyDistinguishesTypes(t *testing.T) {
	created := NewEncounterEvent(EncounterCreated, "enc-1", "user-1", "knee")
	finalized := created
	finalized.Type = EncounterFinalized

	assert.NotEqual(t, created.Key(), finalized.Key())
	assert.Equal(t, created.Key(), created.Key())
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
