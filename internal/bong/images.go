package bong

import (
	"regexp"
	"strings"
)

// Resource is the resource type a worker gathers
type Resource string

// Resource types tracked by the worker simulation
const (
	ResourceWood  Resource = "wood"
	ResourceFood  Resource = "food"
	ResourceGold  Resource = "gold"
	ResourceStone Resource = "stone"
)

// Bucket is the finer-grained gathering location within a resource
type Bucket string

// Buckets of the worker simulation
const (
	BucketLumber    Bucket = "lumber"
	BucketStraggler Bucket = "straggler"
	BucketAnimals   Bucket = "animals"
	BucketBerries   Bucket = "berries"
	BucketFarms     Bucket = "farms"
	BucketGold      Bucket = "gold"
	BucketStone     Bucket = "stone"
)

// Placement locates an image reference in the worker simulation
type Placement struct {
	Resource Resource
	Bucket   Bucket
}

var imagePathPattern = regexp.MustCompile(`@([^@]+)@`)

// resourceImages maps overlay image paths to the workers they represent
var resourceImages = map[string]Placement{
	"lumber_camp/Lumber_camp_aoe2de.png": {ResourceWood, BucketLumber},
	"resource/Aoe2de_wood.png":           {ResourceWood, BucketStraggler},

	"animal/Sheep_aoe2DE.png":  {ResourceFood, BucketAnimals},
	"animal/Boar_aoe2DE.png":   {ResourceFood, BucketAnimals},
	"animal/Deer_aoe2DE.png":   {ResourceFood, BucketAnimals},
	"resource/BerryBushDE.png": {ResourceFood, BucketBerries},
	"mill/FarmDE.png":          {ResourceFood, BucketFarms},

	"resource/Aoe2de_gold.png":  {ResourceGold, BucketGold},
	"resource/Aoe2de_stone.png": {ResourceStone, BucketStone},
}

// ExtractImagePaths returns every @-delimited image path in the note, in order
func ExtractImagePaths(note string) []string {
	matches := imagePathPattern.FindAllStringSubmatch(note, -1)
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, m[1])
	}
	return paths
}

// PlacementOf classifies an image path against the resource table.
// The second return is false for buildings and other non-gathering images.
func PlacementOf(path string) (Placement, bool) {
	p, ok := resourceImages[strings.TrimSpace(path)]
	return p, ok
}
