package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/tubechat"
	"github.com/fwojciec/tubechat/chat"
)

// graphJSON is the --json representation of a graph result.
type graphJSON struct {
	URL     string                   `json:"url"`
	VideoID string                   `json:"videoId,omitempty"`
	Title   string                   `json:"title,omitempty"`
	Cached  bool                     `json:"cached"`
	Graph   *tubechat.KnowledgeGraph `json:"graph,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// Run executes the graph command.
func (c *GraphCmd) Run(deps *Dependencies) error {
	var progress chat.ProgressFunc
	if len(c.URLs) > 1 {
		progress = func(event chat.ProgressEvent) {
			switch event.Type {
			case chat.ProgressCompleted:
				fmt.Fprintf(deps.Stderr, "  [%d/%d] %s\n", event.Completed, event.Total, event.URL)
			case chat.ProgressFailed:
				fmt.Fprintf(deps.Stderr, "  [%d/%d] skip %s: %s\n", event.Completed, event.Total, event.URL, tubechat.ErrorMessage(event.Error))
			}
		}
	}

	results := deps.Chat.KnowledgeGraphs(deps.Ctx, c.URLs, c.Refresh, progress)

	if c.JSON {
		return c.writeJSON(deps, results)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			if progress == nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", tubechat.ErrorMessage(r.Err))
			}
			continue
		}

		path, err := deps.Exporter.Export(deps.Ctx, r.Video, r.Graph)
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: export %s: %s\n", r.URL, tubechat.ErrorMessage(err))
			continue
		}

		if r.Cached {
			fmt.Fprintf(deps.Stdout, "Wrote %s (cached)\n", path)
		} else {
			fmt.Fprintf(deps.Stdout, "Wrote %s\n", path)
		}
	}

	return batchError(failed, len(results), results)
}

func (c *GraphCmd) writeJSON(deps *Dependencies, results []chat.GraphResult) error {
	out := make([]graphJSON, 0, len(results))
	failed := 0
	for _, r := range results {
		item := graphJSON{URL: r.URL, Cached: r.Cached, Graph: r.Graph}
		if r.Video != nil {
			item.VideoID = r.Video.ID
			item.Title = r.Video.Title
		}
		if r.Err != nil {
			failed++
			item.Error = tubechat.ErrorMessage(r.Err)
		}
		out = append(out, item)
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	return batchError(failed, len(results), results)
}

// batchError returns the only error of a single-URL batch, or a summary
// error when any URL of a larger batch failed.
func batchError(failed, total int, results []chat.GraphResult) error {
	switch {
	case failed == 0:
		return nil
	case total == 1 && results[0].Err != nil:
		return results[0].Err
	default:
		return tubechat.Errorf(tubechat.EINTERNAL, "%d of %d graphs failed", failed, total)
	}
}
