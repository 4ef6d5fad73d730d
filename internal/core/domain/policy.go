package domain

import (
	"math"
	"sort"
	"time"
)

// PolicyNotLoadedMessage is returned by the policy tool before any successful upload.
const PolicyNotLoadedMessage = "Policy document not loaded. Unable to verify compliance."

// PolicyChunk is one overlapping slice of the policy text and its embedding.
type PolicyChunk struct {
	Index  int
	Text   string
	Vector []float32
}

// ScoredChunk is a retrieval hit.
type ScoredChunk struct {
	PolicyChunk
	Score float64
}

// PolicyIndex is an immutable similarity index over one ingested document.
type PolicyIndex struct {
	DocumentName string
	Chunks       []PolicyChunk
	LoadedAt     time.Time
}

// PolicyStatus describes the live policy index.
type PolicyStatus struct {
	Loaded       bool       `json:"policy_loaded"`
	DocumentName string     `json:"document,omitempty"`
	ChunkCount   int        `json:"chunks,omitempty"`
	LoadedAt     *time.Time `json:"loaded_at,omitempty"`
}

// TopK returns the k chunks most similar to query by cosine similarity, best first.
func (p *PolicyIndex) TopK(query []float32, k int) []ScoredChunk {
	if p == nil || k <= 0 {
		return nil
	}
	scored := make([]ScoredChunk, 0, len(p.Chunks))
	for _, c := range p.Chunks {
		scored = append(scored, ScoredChunk{PolicyChunk: c, Score: CosineSimilarity(query, c.Vector)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// CosineSimilarity returns 0 for mismatched or zero-length vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
