package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List maps of the game document",
	Long: `List every map of the game document with its dog speed, bag capacity
and the number of roads, offices and loot types.

Examples:
  dogpatrol maps
  dogpatrol maps --config ./configs/game.yaml`,
	Run: runMaps,
}

func runMaps(_ *cobra.Command, _ []string) {
	cfg, game := loadGame()

	fmt.Println("Maps")
	fmt.Println()

	rows := make([][]string, 0, len(game.Maps()))
	for _, m := range game.Maps() {
		rows = append(rows, []string{
			string(m.ID()),
			m.Name(),
			strconv.FormatFloat(m.DogSpeed(), 'g', -1, 64),
			strconv.Itoa(m.BagCapacity()),
			strconv.Itoa(len(m.Roads())),
			strconv.Itoa(len(m.Offices())),
			strconv.Itoa(m.LootTypesCount()),
		})
	}
	fmt.Println(renderTable([]string{"ID", "Name", "Speed", "Bag", "Roads", "Offices", "Loot types"}, rows))
	fmt.Println()
	fmt.Printf("Dogs retire after %s idle. Loot: period %s, probability %.2f\n",
		cfg.RetirementTime(), cfg.LootPolicy().Period, cfg.LootPolicy().Probability)
}
