package service

import "math"

// OverallPercent derives the 0-100 completion value for a position. The
// spine index contributes a coarse fraction of the book and the intra-chapter
// fraction is scaled down to the chapter's share, so the result grows
// monotonically within a chapter and jumps to the next coarse step at a
// chapter boundary.
//
// A book with no spine items yields 0.
func OverallPercent(spineIndex, totalSpineItems int, intraChapterFraction float64) int {
	if totalSpineItems <= 0 {
		return 0
	}
	if spineIndex < 0 {
		spineIndex = 0
	}
	if intraChapterFraction < 0 {
		intraChapterFraction = 0
	} else if intraChapterFraction > 1 {
		intraChapterFraction = 1
	}

	total := float64(totalSpineItems)
	overall := (float64(spineIndex)/total + intraChapterFraction/total) * 100

	percent := int(math.Round(overall))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
