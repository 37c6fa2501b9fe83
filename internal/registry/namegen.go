package registry

import "math/rand"

var (
	namePrefixes = []string{"Room", "Game", "Trivia", "Quiz"}
	nameSuffixes = []string{"Blaze", "Lightning", "Star", "Victory", "Express"}
)

// generateRoomName builds a default display name when the creator leaves it
// blank.
func generateRoomName(rng *rand.Rand) string {
	return namePrefixes[rng.Intn(len(namePrefixes))] + " " + nameSuffixes[rng.Intn(len(nameSuffixes))]
}
