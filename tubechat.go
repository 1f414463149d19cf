// Package tubechat provides a CLI study companion for YouTube videos.
// It scrapes watch pages for metadata, asks a hosted language model for
// guiding questions and follow-up answers, renders assistant Markdown as
// sanitized HTML, and exports generated knowledge graphs as standalone pages.
//
// This package contains domain types, interfaces and the two pure text
// transformations (RenderMarkdown and ExtractKnowledgeGraph) following Ben
// Johnson's Standard Package Layout. Implementations live in subdirectories
// named after their primary dependency (e.g., gemini/, sqlite/, goquery/).
package tubechat
