package world

// SpawnerConfig describes how a region repopulates itself with hostiles.
// The respawn loop consuming it lives outside the progression core.
type SpawnerConfig struct {
	TemplateIDs []string `json:"template_ids,omitempty" yaml:"template_ids"`
	MaxActive   int      `json:"max_active,omitempty" yaml:"max_active"`
}

// Region owns a map of room ID to Room.
type Region struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Rooms       map[string]*Room `json:"rooms"`
	Spawner     *SpawnerConfig   `json:"spawner,omitempty"`
}

// NewRegion creates an empty region.
func NewRegion(id, name, description string) *Region {
	return &Region{
		ID:          id,
		Name:        name,
		Description: description,
		Rooms:       make(map[string]*Room),
	}
}

// AddRoom inserts a room into the region.
func (rg *Region) AddRoom(room *Room) {
	if room != nil {
		rg.Rooms[room.ID] = room
	}
}

// GetRoom returns a room by ID, or nil.
func (rg *Region) GetRoom(roomID string) *Room {
	return rg.Rooms[roomID]
}

// RoomCount returns the number of rooms in the region.
func (rg *Region) RoomCount() int {
	return len(rg.Rooms)
}

// ReachableFrom returns the set of room IDs reachable from startRoomID via
// in-region exits, using a breadth-first traversal. Cross-region exits are
// not followed.
func (rg *Region) ReachableFrom(startRoomID string) map[string]bool {
	visited := make(map[string]bool)
	if rg.Rooms[startRoomID] == nil {
		return visited
	}

	queue := []string{startRoomID}
	visited[startRoomID] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, target := range rg.Rooms[current].Exits {
			if _, _, cross := SplitExitTarget(target); cross {
				continue
			}
			if !visited[target] && rg.Rooms[target] != nil {
				visited[target] = true
				queue = append(queue, target)
			}
		}
	}
	return visited
}
