package level

// BuiltIn returns the levels shipped with the game, used when no levels
// directory is given on the command line.
func BuiltIn() []*Level {
	return []*Level{
		{
			Name:       "First Steps",
			Start:      Point{X: 120, Y: 360},
			Goal:       Point{X: 1160, Y: 360},
			Background: 0,
			Walls: []Wall{
				{Left: 400, Top: 0, Right: 440, Bottom: 480},
				{Left: 820, Top: 240, Right: 860, Bottom: 720},
			},
			Holes: []Hole{
				{X: 640, Y: 160},
				{X: 640, Y: 560},
			},
		},
		{
			Name:       "Switchback",
			Start:      Point{X: 100, Y: 100},
			Goal:       Point{X: 1180, Y: 620},
			Background: 1,
			Walls: []Wall{
				{Left: 0, Top: 200, Right: 980, Bottom: 240},
				{Left: 300, Top: 440, Right: 1280, Bottom: 480},
			},
			Holes: []Hole{
				{X: 1100, Y: 120},
				{X: 160, Y: 340},
				{X: 520, Y: 600},
			},
		},
		{
			Name:       "Pinfield",
			Start:      Point{X: 640, Y: 80},
			Goal:       Point{X: 640, Y: 650},
			Background: 2,
			Walls: []Wall{
				{Left: 200, Top: 180, Right: 360, Bottom: 220},
				{Left: 560, Top: 300, Right: 720, Bottom: 340},
				{Left: 920, Top: 180, Right: 1080, Bottom: 220},
				{Left: 380, Top: 480, Right: 540, Bottom: 520},
				{Left: 740, Top: 480, Right: 900, Bottom: 520},
			},
			Holes: []Hole{
				{X: 300, Y: 360},
				{X: 980, Y: 360},
				{X: 640, Y: 500},
				{X: 200, Y: 620},
				{X: 1080, Y: 620},
			},
		},
	}
}
