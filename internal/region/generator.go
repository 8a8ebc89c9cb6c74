// Package region synthesizes connected room graphs for quest-private
// explorable spaces. Rooms are placed on a 3-D grid so exits stay spatially
// consistent, then extra edges are added so layouts are not pure trees.
package region

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/hollowmoor/duskmud/internal/logger"
	"github.com/hollowmoor/duskmud/internal/world"
)

// ErrThemeNotFound is returned when the requested theme is unknown.
var ErrThemeNotFound = errors.New("region theme not found")

// EntryRoomID is the fixed ID of a generated region's entry room.
const EntryRoomID = "room_entry"

type gridPos struct {
	X, Y, Z int
}

var directionVectors = map[string]gridPos{
	"north":     {0, -1, 0},
	"south":     {0, 1, 0},
	"east":      {1, 0, 0},
	"west":      {-1, 0, 0},
	"northeast": {1, -1, 0},
	"northwest": {-1, -1, 0},
	"southeast": {1, 1, 0},
	"southwest": {-1, 1, 0},
	"up":        {0, 0, 1},
	"down":      {0, 0, -1},
}

var oppositeDirection = map[string]string{
	"north":     "south",
	"south":     "north",
	"east":      "west",
	"west":      "east",
	"northeast": "southwest",
	"southwest": "northeast",
	"northwest": "southeast",
	"southeast": "northwest",
	"up":        "down",
	"down":      "up",
}

var planarDirections = []string{
	"north", "south", "east", "west",
	"northeast", "northwest", "southeast", "southwest",
}

var verticalDirections = []string{"up", "down"}

// allDirections fixes iteration order so generation is reproducible under a
// seed; ranging over the vector map would not be.
var allDirections = append(append([]string(nil), planarDirections...), verticalDirections...)

// verticalBias is the chance a new room prefers vertical placement.
const verticalBias = 0.2

// Generator synthesizes regions from a theme set. It owns its random source
// so generation is reproducible under a fixed seed.
type Generator struct {
	themes *ThemeConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator over the given themes. A nil rng gets a
// time-seeded source.
func NewGenerator(themes *ThemeConfig, rng *rand.Rand) *Generator {
	if themes == nil {
		themes = DefaultThemes()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Generator{themes: themes, rng: rng}
}

// Generate builds a connected region of up to numRooms rooms for the theme
// and returns it with the entry room ID. Fewer rooms than requested is not an
// error: the frontier can run out of free grid cells, and callers must use
// the actual room count. An unknown theme fails with ErrThemeNotFound.
func (g *Generator) Generate(themeName string, numRooms int) (*world.Region, string, error) {
	theme, ok := g.themes.Themes[themeName]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrThemeNotFound, themeName)
	}
	if numRooms < 1 {
		numRooms = 1
	}

	regionID := fmt.Sprintf("dynamic_%s_%s", themeName, uuid.NewString()[:6])
	regionName := g.formatPlaceholders(pickOr(g.rng, theme.NameTemplates, "A Mysterious Place"))
	region := world.NewRegion(regionID, regionName, theme.Description)
	region.Spawner = theme.Spawner

	coordsToID := map[gridPos]string{}
	idToCoords := map[string]gridPos{}
	placedOrder := []string{EntryRoomID}

	entry := world.NewRoom(EntryRoomID, "Entrance", "")
	region.AddRoom(entry)
	coordsToID[gridPos{0, 0, 0}] = EntryRoomID
	idToCoords[EntryRoomID] = gridPos{0, 0, 0}
	frontier := []string{EntryRoomID}

	// Growth: each new room attaches to a random frontier room in a random
	// free direction, so the graph is connected by construction.
	for i := 1; i < numRooms; i++ {
		newRoomID := fmt.Sprintf("room_%d", i)
		placed := false

		g.rng.Shuffle(len(frontier), func(a, b int) {
			frontier[a], frontier[b] = frontier[b], frontier[a]
		})

		for _, currentID := range frontier {
			current := idToCoords[currentID]
			pool := g.directionPool()
			for _, direction := range pool {
				vec := directionVectors[direction]
				next := gridPos{current.X + vec.X, current.Y + vec.Y, current.Z + vec.Z}
				if _, occupied := coordsToID[next]; occupied {
					continue
				}

				room := world.NewRoom(newRoomID, pickOr(g.rng, theme.RoomNames, "A Room"), "")
				region.AddRoom(room)
				coordsToID[next] = newRoomID
				idToCoords[newRoomID] = next

				region.GetRoom(currentID).AddExit(direction, newRoomID)
				room.AddExit(oppositeDirection[direction], currentID)
				frontier = append(frontier, newRoomID)
				placedOrder = append(placedOrder, newRoomID)
				placed = true
				break
			}
			if placed {
				break
			}
		}
		if !placed {
			// Frontier exhausted; stop early with what we have.
			logger.Debug("Region growth stopped early",
				"region", regionID, "placed", region.RoomCount(), "requested", numRooms)
			break
		}
	}

	// Loop edges: link grid-adjacent rooms that are not yet connected so the
	// layout is not a pure tree. Only adds edges, so connectivity holds.
	extraEdges := numRooms/2 + g.rng.Intn(numRooms/2+1)
	for e := 0; e < extraEdges; e++ {
		roomID := placedOrder[g.rng.Intn(len(placedOrder))]
		pos := idToCoords[roomID]
		room := region.GetRoom(roomID)

		var candidates []string
		for _, direction := range allDirections {
			vec := directionVectors[direction]
			neighbor := gridPos{pos.X + vec.X, pos.Y + vec.Y, pos.Z + vec.Z}
			if _, occupied := coordsToID[neighbor]; !occupied {
				continue
			}
			if _, linked := room.Exits[direction]; linked {
				continue
			}
			candidates = append(candidates, direction)
		}
		if len(candidates) == 0 {
			continue
		}

		direction := candidates[g.rng.Intn(len(candidates))]
		vec := directionVectors[direction]
		neighborID := coordsToID[gridPos{pos.X + vec.X, pos.Y + vec.Y, pos.Z + vec.Z}]
		room.AddExit(direction, neighborID)
		region.GetRoom(neighborID).AddExit(oppositeDirection[direction], roomID)
	}

	// Themed names and descriptions, with placeholder substitution.
	for _, roomID := range placedOrder {
		room := region.GetRoom(roomID)
		room.Description = g.formatPlaceholders(pickOr(g.rng, theme.RoomDescriptions, "An empty space."))
	}

	logger.Info("Generated region",
		"region", regionID, "theme", themeName, "rooms", region.RoomCount())
	return region, EntryRoomID, nil
}

// directionPool orders candidate directions. Placement is weighted toward
// planar directions; with a small bias the vertical pair is tried first so
// layouts gain depth.
func (g *Generator) directionPool() []string {
	planar := append([]string(nil), planarDirections...)
	vertical := append([]string(nil), verticalDirections...)
	g.rng.Shuffle(len(planar), func(a, b int) { planar[a], planar[b] = planar[b], planar[a] })
	g.rng.Shuffle(len(vertical), func(a, b int) { vertical[a], vertical[b] = vertical[b], vertical[a] })

	if g.rng.Float64() < verticalBias {
		return append(vertical, planar...)
	}
	return append(planar, vertical...)
}

// pickOr returns a random element of options, or the fallback when empty.
func pickOr(rng *rand.Rand, options []string, fallback string) string {
	if len(options) == 0 {
		return fallback
	}
	return options[rng.Intn(len(options))]
}
