package conversation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderedPairIsSymmetric(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	b := uuid.MustParse("ffffffff-0000-0000-0000-000000000001")

	low1, high1 := OrderedPair(a, b)
	low2, high2 := OrderedPair(b, a)

	assert.Equal(t, a, low1)
	assert.Equal(t, b, high1)
	assert.Equal(t, low1, low2)
	assert.Equal(t, high1, high2)
}

func TestConversationParticipants(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	low, high := OrderedPair(a, b)
	c := &Conversation{ParticipantLow: low, ParticipantHigh: high}

	assert.True(t, c.HasParticipant(a))
	assert.True(t, c.HasParticipant(b))
	assert.False(t, c.HasParticipant(uuid.New()))
	assert.Equal(t, b, c.OtherParticipant(a))
	assert.Equal(t, a, c.OtherParticipant(b))
}
