// Command regiongen generates a procedural region and prints its layout,
// useful for tuning themes and eyeballing connectivity.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/hollowmoor/duskmud/internal/logger"
	"github.com/hollowmoor/duskmud/internal/region"
)

func main() {
	themeName := flag.String("theme", "caves", "Region theme name")
	rooms := flag.Int("rooms", 10, "Number of rooms to generate")
	seed := flag.Int64("seed", 0, "Random seed (0 for random)")
	themesFile := flag.String("themes", "", "Path to a themes YAML file (empty for built-ins)")
	flag.Parse()

	cfg := logger.DefaultConfig()
	cfg.Level = "WARNING"
	if err := logger.Initialize(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	themes := region.DefaultThemes()
	if *themesFile != "" {
		loaded, err := region.LoadThemesFromYAML(*themesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading themes: %v\n", err)
			os.Exit(1)
		}
		themes = loaded
	}

	if *seed == 0 {
		*seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(*seed))

	gen := region.NewGenerator(themes, rng)
	rg, entryID, err := gen.Generate(*themeName, *rooms)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating region: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Region: %s (%s)\n", rg.Name, rg.ID)
	fmt.Printf("Seed:   %d\n", *seed)
	fmt.Printf("Rooms:  %d (requested %d)\n", rg.RoomCount(), *rooms)
	fmt.Printf("Entry:  %s\n\n", entryID)

	roomIDs := make([]string, 0, rg.RoomCount())
	for id := range rg.Rooms {
		roomIDs = append(roomIDs, id)
	}
	sort.Strings(roomIDs)

	for _, id := range roomIDs {
		room := rg.GetRoom(id)
		fmt.Printf("%-12s %s\n", id, room.Name)

		directions := make([]string, 0, len(room.Exits))
		for direction := range room.Exits {
			directions = append(directions, direction)
		}
		sort.Strings(directions)
		for _, direction := range directions {
			fmt.Printf("    %-10s -> %s\n", direction, room.Exits[direction])
		}
	}

	reachable := rg.ReachableFrom(entryID)
	fmt.Printf("\nReachable from entry: %d/%d\n", len(reachable), rg.RoomCount())
	if len(reachable) != rg.RoomCount() {
		fmt.Fprintln(os.Stderr, "ERROR: region is not fully connected")
		os.Exit(1)
	}
}
