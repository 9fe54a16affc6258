package memory

import (
	"testing"

	"physio-notes-be/pkg/flow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateReusesFlowPerUser(t *testing.T) {
	repo := NewSessionRepository()
	userA, userB := uuid.New(), uuid.New()

	calls := 0
	newFlow := func() *flow.Flow {
		calls++
		return flow.New(flow.Dependencies{})
	}

	a1, created := repo.GetOrCreate(userA, newFlow)
	assert.True(t, created)
	a2, created := repo.GetOrCreate(userA, newFlow)
	assert.False(t, created)
	assert.Same(t, a1, a2)

	b, _ := repo.GetOrCreate(userB, newFlow)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, calls)
}

func TestDeleteFiresEviction(t *testing.T) {
	repo := NewSessionRepository()
	userID := uuid.New()
	repo.GetOrCreate(userID, func() *flow.Flow { return flow.New(flow.Dependencies{}) })

	var evicted string
	repo.OnEvicted(func(id string, _ *flow.Flow) { evicted = id })
	repo.Delete(userID)

	assert.Equal(t, userID.String(), evicted)
	_, found := repo.Get(userID)
	assert.False(t, found)
}
