package game

// GenerateMap builds the cosmetic side grid shown next to the quiz. Marker
// cells 1..playerCount are placed on alternating left/right edges, one pair
// per row band of height-1 rows. Carries no gameplay state.
func GenerateMap(width, height, playerCount int) [][]int {
	grid := make([][]int, height)
	for y := range grid {
		grid[y] = make([]int, width)
	}

	for i := 0; i < playerCount; i++ {
		x := 0
		if i%2 != 0 {
			x = width - 1
		}
		y := (i / 2) * (height - 1)
		grid[y][x] = i + 1
	}
	return grid
}
