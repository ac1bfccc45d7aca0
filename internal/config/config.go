// Package config loads the game document describing maps and gameplay
// tunables, and the server settings taken from the environment.
package config

// GameConfig is the root of the game document.
type GameConfig struct {
	DefaultDogSpeed    float64             `yaml:"default_dog_speed"`
	DefaultBagCapacity *int                `yaml:"default_bag_capacity"`
	DogRetirementTime  float64             `yaml:"dog_retirement_time"` // seconds
	LootGenerator      LootGeneratorConfig `yaml:"loot_generator"`
	Maps               []MapConfig         `yaml:"maps"`
}

// LootGeneratorConfig tunes how fast loot appears.
type LootGeneratorConfig struct {
	Period      float64 `yaml:"period"` // seconds
	Probability float64 `yaml:"probability"`
}

// MapConfig describes one map. DogSpeed and BagCapacity fall back to the
// document defaults when omitted.
type MapConfig struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	DogSpeed    *float64         `yaml:"dog_speed"`
	BagCapacity *int             `yaml:"bag_capacity"`
	Roads       []RoadConfig     `yaml:"roads"`
	Buildings   []BuildingConfig `yaml:"buildings"`
	Offices     []OfficeConfig   `yaml:"offices"`
	LootTypes   []LootTypeConfig `yaml:"loot_types"`
}

// RoadConfig is a horizontal road when X1 is set and a vertical one when Y1
// is set.
type RoadConfig struct {
	X0 int  `yaml:"x0"`
	Y0 int  `yaml:"y0"`
	X1 *int `yaml:"x1"`
	Y1 *int `yaml:"y1"`
}

// BuildingConfig is a rectangle with its top-left corner at X, Y.
type BuildingConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// OfficeConfig is a drop-off point.
type OfficeConfig struct {
	ID      string `yaml:"id"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	OffsetX int    `yaml:"offset_x"`
	OffsetY int    `yaml:"offset_y"`
}

// LootTypeConfig describes a collectible kind. Value is the score awarded
// per delivered item.
type LootTypeConfig struct {
	Name     string  `yaml:"name"`
	File     string  `yaml:"file"`
	Type     string  `yaml:"type"`
	Rotation int     `yaml:"rotation"`
	Color    string  `yaml:"color"`
	Scale    float64 `yaml:"scale"`
	Value    int     `yaml:"value"`
}
