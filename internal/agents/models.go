package agents

import "time"

// Collection is the record store collection holding Agent records.
const Collection = "agents"

// Agent is a named prompt configuration owned by exactly one user.
type Agent struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	AgentName string    `json:"agentName"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"createdAt"`
}
