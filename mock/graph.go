package mock

import (
	"context"

	"github.com/fwojciec/tubechat"
)

var _ tubechat.GraphService = (*GraphService)(nil)

// GraphService is a mock implementation of tubechat.GraphService.
type GraphService struct {
	SaveGraphFn   func(ctx context.Context, video *tubechat.Video, graph *tubechat.KnowledgeGraph) (*tubechat.StoredGraph, error)
	FindGraphFn   func(ctx context.Context, video *tubechat.Video) (*tubechat.StoredGraph, error)
	DeleteGraphFn func(ctx context.Context, videoID string) error
}

func (s *GraphService) SaveGraph(ctx context.Context, video *tubechat.Video, graph *tubechat.KnowledgeGraph) (*tubechat.StoredGraph, error) {
	return s.SaveGraphFn(ctx, video, graph)
}

func (s *GraphService) FindGraph(ctx context.Context, video *tubechat.Video) (*tubechat.StoredGraph, error) {
	return s.FindGraphFn(ctx, video)
}

func (s *GraphService) DeleteGraph(ctx context.Context, videoID string) error {
	return s.DeleteGraphFn(ctx, videoID)
}

var _ tubechat.GraphExporter = (*GraphExporter)(nil)

// GraphExporter is a mock implementation of tubechat.GraphExporter.
type GraphExporter struct {
	ExportFn func(ctx context.Context, video *tubechat.Video, graph *tubechat.KnowledgeGraph) (string, error)
}

func (e *GraphExporter) Export(ctx context.Context, video *tubechat.Video, graph *tubechat.KnowledgeGraph) (string, error) {
	return e.ExportFn(ctx, video, graph)
}
