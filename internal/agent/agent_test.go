package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAgentCard(t *testing.T) {
	require.NoError(t, LoadAgentCard())

	var card map[string]any
	require.NoError(t, json.Unmarshal(AgentCardData, &card))
	for _, field := range []string{"name", "description", "version", "capabilities", "endpoints"} {
		assert.Contains(t, card, field)
	}
	assert.Equal(t, "/a2a/icp", card["endpoints"].(map[string]any)["a2a"])
}
