package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/tubechat"
)

// Compile-time interface verification.
var _ tubechat.GraphService = (*GraphService)(nil)

// GraphService implements tubechat.GraphService using SQLite. Graphs are
// stored as JSON alongside a hash of the metadata they were generated from.
type GraphService struct {
	db *DB
}

// NewGraphService creates a new GraphService.
func NewGraphService(db *DB) *GraphService {
	return &GraphService{db: db}
}

// HashVideo returns the cache key component for the metadata a graph is
// generated from.
func HashVideo(video *tubechat.Video) string {
	return hashFields(video.Title, video.Channel, video.Description)
}

// SaveGraph stores graph for video, replacing any previous graph.
func (s *GraphService) SaveGraph(ctx context.Context, video *tubechat.Video, graph *tubechat.KnowledgeGraph) (*tubechat.StoredGraph, error) {
	if err := video.Validate(); err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(graph)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}

	stored := &tubechat.StoredGraph{
		VideoID:      video.ID,
		MetadataHash: HashVideo(video),
		Graph:        graph,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO knowledge_graphs (video_id, metadata_hash, graph, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			metadata_hash = excluded.metadata_hash,
			graph = excluded.graph,
			created_at = excluded.created_at
	`, stored.VideoID, stored.MetadataHash, string(data), formatTime(stored.CreatedAt))
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// FindGraph retrieves the cached graph for video. A graph generated from
// different metadata is reported as not found.
func (s *GraphService) FindGraph(ctx context.Context, video *tubechat.Video) (*tubechat.StoredGraph, error) {
	var stored tubechat.StoredGraph
	var data, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT video_id, metadata_hash, graph, created_at
		FROM knowledge_graphs
		WHERE video_id = ?
	`, video.ID).Scan(&stored.VideoID, &stored.MetadataHash, &data, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, tubechat.Errorf(tubechat.ENOTFOUND, "knowledge graph not found")
	}
	if err != nil {
		return nil, err
	}

	if stored.MetadataHash != HashVideo(video) {
		return nil, tubechat.Errorf(tubechat.ENOTFOUND, "knowledge graph is stale")
	}

	stored.Graph = &tubechat.KnowledgeGraph{}
	if err := json.Unmarshal([]byte(data), stored.Graph); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}

	if stored.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &stored, nil
}

// DeleteGraph removes the cached graph for a video.
func (s *GraphService) DeleteGraph(ctx context.Context, videoID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM knowledge_graphs WHERE video_id = ?", videoID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return tubechat.Errorf(tubechat.ENOTFOUND, "knowledge graph not found")
	}

	return nil
}
