package frontier

import "strings"

// Relevance weights. Novelty dominates; inbound links break ties inside a
// domain.
const (
	Alpha = 50
	Beta  = 1
)

// Domain returns the last two dot-separated labels of the URL's authority
// segment (the third "/"-separated field), or the single label when there
// is only one. It is deliberately not public-suffix aware.
func Domain(u string) string {
	parts := strings.Split(u, "/")
	if len(parts) < 3 {
		return ""
	}
	labels := strings.Split(parts[2], ".")
	if n := len(labels); n >= 2 {
		return labels[n-2] + "." + labels[n-1]
	}
	return labels[0]
}

// Novelty decays with the number of pages already visited on a domain.
func Novelty(visits int) int {
	return 100 / (visits + 1)
}

// Score is the relevance of a page with the given inbound count on a domain
// with the given visit count. Lower is better so that the frontier can be
// a min-heap.
func Score(incoming, visits int) int {
	return -(Alpha*Novelty(visits) + Beta*incoming)
}
