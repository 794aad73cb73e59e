package domain

// ScoredBullet is a candidate highlight sentence with its heuristic score.
// Created transiently during final-text assembly, never persisted.
type ScoredBullet struct {
	Text  string
	Score int
}
