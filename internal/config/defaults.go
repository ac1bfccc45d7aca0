package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

const (
	DefaultDogSpeed       = 1.0
	DefaultBagCapacity    = 3
	DefaultRetirementTime = 60 * time.Second
	DefaultLootPeriod     = 5 * time.Second
	DefaultLootChance     = 0.5
)
