package composite

import(
	"cmp"
	"slices"
)

// PixelQuality is the transient quality record of one scene at one pixel.
type PixelQuality struct {
	Scene   int
	Valid   bool
	Score   float64
}

// A SelectFunc picks the winner from the valid candidates at a pixel,
// returning its index in cands. Candidates arrive in declaration order
// and there is always at least one. It may reorder cands.
type SelectFunc func(dir Direction, cands []PixelQuality) int

// SelectBest picks the candidate with the extreme score. On a tie the
// earliest declared scene wins, since later ones must be strictly better
// to replace it.
func SelectBest(dir Direction, cands []PixelQuality) int {
	best := 0
	for i:=1; i<len(cands); i++ {
		if dir.Better(cands[i].Score, cands[best].Score) {
			best = i
		}
	}
	return best
}

// SelectMedian ranks the candidates by ascending score (equal scores by
// declaration order) and picks the middle rank. With an even number of
// candidates it takes the lower of the two middle ranks. The ranking
// ignores the win direction.
func SelectMedian(dir Direction, cands []PixelQuality) int {
	slices.SortFunc(cands, func(a, b PixelQuality) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Scene, b.Scene)
	})
	return (len(cands) - 1) / 2
}
