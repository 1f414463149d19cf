package tubechat

import (
	"context"
	"strings"
	"time"
)

// Importance ranks a key point within a knowledge graph.
type Importance string

// Importance constants used by the knowledge graph prompt.
const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Normalize maps free-form model output onto a known importance.
// Unknown values are treated as medium.
func (i Importance) Normalize() Importance {
	switch Importance(strings.ToLower(strings.TrimSpace(string(i)))) {
	case ImportanceHigh:
		return ImportanceHigh
	case ImportanceLow:
		return ImportanceLow
	default:
		return ImportanceMedium
	}
}

// KnowledgeGraph summarizes a video as a Mermaid mindmap plus key points and
// relationships between concepts.
type KnowledgeGraph struct {
	Title       string       `json:"title"`
	Summary     string       `json:"summary"`
	MermaidCode string       `json:"mermaidCode"`
	KeyPoints   []KeyPoint   `json:"keyPoints"`
	Connections []Connection `json:"connections"`
}

// KeyPoint is a single takeaway of a video.
type KeyPoint struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Importance  Importance `json:"importance"`
}

// Connection relates two concepts mentioned in a video.
type Connection struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Relationship string `json:"relationship"`
}

// Validate returns an error if the graph cannot be rendered.
func (g *KnowledgeGraph) Validate() error {
	if strings.TrimSpace(g.MermaidCode) == "" {
		return Errorf(EINVALID, "knowledge graph mermaid code required")
	}
	return nil
}

// StoredGraph is a knowledge graph cached for a video.
type StoredGraph struct {
	VideoID string `json:"videoId"`

	// MetadataHash identifies the video metadata the graph was generated
	// from. A graph is stale once the metadata hash changes.
	MetadataHash string `json:"metadataHash"`

	Graph     *KnowledgeGraph `json:"graph"`
	CreatedAt time.Time       `json:"createdAt"`
}

// GraphService caches generated knowledge graphs.
type GraphService interface {
	// SaveGraph stores a graph for a video, replacing any previous graph.
	SaveGraph(ctx context.Context, video *Video, graph *KnowledgeGraph) (*StoredGraph, error)

	// FindGraph retrieves the cached graph for a video. Returns ENOTFOUND if
	// no graph is cached or the video metadata changed since it was stored.
	FindGraph(ctx context.Context, video *Video) (*StoredGraph, error)

	// DeleteGraph removes the cached graph for a video.
	// Returns ENOTFOUND if no graph is cached.
	DeleteGraph(ctx context.Context, videoID string) error
}

// GraphExporter writes a knowledge graph as a standalone document.
type GraphExporter interface {
	// Export writes the graph and returns the path of the created file.
	Export(ctx context.Context, video *Video, graph *KnowledgeGraph) (string, error)
}
