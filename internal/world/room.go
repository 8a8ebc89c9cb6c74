package world

import (
	"strings"

	"github.com/hollowmoor/duskmud/internal/items"
)

// Room is one location within a region. Exits map a direction to a target
// room ID; a target of the form "region:room" crosses into another region.
type Room struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Exits       map[string]string `json:"exits"`
	Items       []*items.Item     `json:"items,omitempty"`
	Outdoors    bool              `json:"outdoors,omitempty"`
}

// NewRoom creates a room with an empty exit map.
func NewRoom(id, name, description string) *Room {
	return &Room{
		ID:          id,
		Name:        name,
		Description: description,
		Exits:       make(map[string]string),
	}
}

// AddExit links this room to a target room ID in the given direction.
func (r *Room) AddExit(direction, targetRoomID string) {
	if r.Exits == nil {
		r.Exits = make(map[string]string)
	}
	r.Exits[direction] = targetRoomID
}

// AddItem places an item on the floor of the room.
func (r *Room) AddItem(item *items.Item) {
	if item != nil {
		r.Items = append(r.Items, item)
	}
}

// MatchesKeyword reports whether the room ID or name contains the keyword,
// case-insensitively. Used by scout objective resolution.
func (r *Room) MatchesKeyword(keyword string) bool {
	keyword = strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(r.ID), keyword) ||
		strings.Contains(strings.ToLower(r.Name), keyword)
}

// SplitExitTarget splits a cross-region exit target into region and room IDs.
// A target without a region prefix returns ok=false.
func SplitExitTarget(target string) (regionID, roomID string, ok bool) {
	idx := strings.Index(target, ":")
	if idx < 0 {
		return "", target, false
	}
	return target[:idx], target[idx+1:], true
}

// ExitTarget formats a cross-region exit target.
func ExitTarget(regionID, roomID string) string {
	return regionID + ":" + roomID
}
