package mention

import "math"

// Engagement coefficients of the impact weight
const (
	LikeWeight    = 0.1
	CommentWeight = 0.25
)

// ImpactWeight scores a post by engagement: 1 + 0.1*likes + 0.25*comments.
// Negative or NaN counts count as zero, so the result is always at least 1.
func ImpactWeight(likes, comments float64) float64 {
	return 1 + LikeWeight*nonNegative(likes) + CommentWeight*nonNegative(comments)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}
