package tubechat

import "context"

// Assistant answers questions about a video using a language model.
type Assistant interface {
	// Guide returns an opening message with guiding questions to think
	// about while watching the video.
	Guide(ctx context.Context, video *Video) (string, error)

	// Ask answers a follow-up question. History holds the previous turns of
	// the conversation, oldest first, and may be empty.
	// Returns EINVALID if the question is empty.
	Ask(ctx context.Context, video *Video, history []*Message, question string) (string, error)

	// GenerateKnowledgeGraph summarizes the video as a knowledge graph.
	// Returns EPARSE if the model response cannot be turned into a graph.
	GenerateKnowledgeGraph(ctx context.Context, video *Video) (*KnowledgeGraph, error)
}
