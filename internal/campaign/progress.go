package campaign

import (
	"time"
)

// HistoryEntry records one resolved node.
type HistoryEntry struct {
	NodeID     string `json:"node_id"`
	Resolution string `json:"resolution"`
}

// Progress is a player's position in an active campaign.
type Progress struct {
	CurrentNode string            `json:"current_node"`
	History     []HistoryEntry    `json:"history"`
	Variables   map[string]string `json:"variables,omitempty"`
}

// Completed records a finished campaign and its outcome.
type Completed struct {
	Outcome string         `json:"outcome"`
	EndTime time.Time      `json:"end_time"`
	History []HistoryEntry `json:"history,omitempty"`
}
