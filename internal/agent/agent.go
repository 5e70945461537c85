// Package agent holds the A2A agent card served at /.well-known/agent.json.
package agent

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed agent.json
var cardJSON []byte

// AgentCardData is the card as served, set by LoadAgentCard.
var AgentCardData []byte

type Card struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Version      string            `json:"version"`
	URL          string            `json:"url"`
	Capabilities map[string]bool   `json:"capabilities"`
	Endpoints    map[string]string `json:"endpoints"`
}

var (
	loadOnce sync.Once
	loadErr  error
)

// LoadAgentCard checks the embedded card once and publishes it in
// AgentCardData.
func LoadAgentCard() error {
	loadOnce.Do(func() {
		var card Card
		if err := json.Unmarshal(cardJSON, &card); err != nil {
			loadErr = fmt.Errorf("parse agent card: %w", err)
			return
		}
		if card.Name == "" || card.Version == "" || len(card.Endpoints) == 0 {
			loadErr = fmt.Errorf("agent card is missing name, version or endpoints")
			return
		}
		AgentCardData = cardJSON
	})
	return loadErr
}
