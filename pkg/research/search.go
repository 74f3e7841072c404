package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/api"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/azure"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/debug"
)

const searchAssistantInstructions = `You are a document search assistant. Use the file_search tool to find passages relevant to the user's query in the knowledge base. Cite every source document you draw from. Answer concisely; the citations matter more than the prose.`

// Search runs a semantic search over the configured vector store and
// returns one SearchResult per citation in the assistant's reply, in
// vendor-reported order. A query that matches nothing yields an empty
// slice, not an error; a blank query short-circuits to an empty slice
// without creating any vendor resources.
func (s *Service) Search(ctx context.Context, query string) ([]api.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []api.SearchResult{}, nil
	}

	sess, err := s.begin(ctx, "research-mcp search", searchAssistantInstructions)
	if err != nil {
		return nil, err
	}
	defer sess.release(ctx)

	if _, err := s.client.CreateMessage(ctx, sess.threadID, azure.CreateMessageRequest{
		Role:    "user",
		Content: query,
	}); err != nil {
		return nil, err
	}

	run, err := sess.runToCompletion(ctx, "search")
	if err != nil {
		return nil, err
	}

	reply, err := sess.assistantReply(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		debug.Log("research", "search run produced no assistant message", "run_id", run.ID)
		return []api.SearchResult{}, nil
	}

	results := s.resultsFromMessage(ctx, reply)
	debug.Log("research", "search completed", "query", debug.Truncate(query, 80), "results", len(results))
	return results, nil
}

// resultsFromMessage converts the citation annotations of an assistant
// message into ordered SearchResults, capped at MaxResults.
func (s *Service) resultsFromMessage(ctx context.Context, msg *azure.Message) []api.SearchResult {
	results := []api.SearchResult{}
	titles := make(map[string]string)

	for _, block := range msg.Content {
		if block.Type != "text" || block.Text == nil {
			continue
		}
		for _, ann := range block.Text.Annotations {
			if ann.Type != "file_citation" || ann.FileCitation == nil {
				continue
			}
			if len(results) >= s.opts.MaxResults {
				return results
			}

			fileID := ann.FileCitation.FileID
			results = append(results, api.SearchResult{
				ID:    fileID,
				Title: s.fileTitle(ctx, titles, fileID),
				Text:  s.snippetFor(block.Text.Value, ann),
				URL:   nil,
			})
		}
	}

	return results
}

// snippetFor extracts the snippet text for one citation. Preference
// order: the citation's own quote (older API versions), then the message
// text surrounding the annotation marker, then the whole message text.
// The result is capped at SnippetLength runes.
func (s *Service) snippetFor(messageText string, ann azure.Annotation) string {
	if ann.FileCitation != nil && ann.FileCitation.Quote != "" {
		return truncateRunes(ann.FileCitation.Quote, s.opts.SnippetLength)
	}

	runes := []rune(messageText)
	if len(runes) == 0 {
		return ""
	}

	// Annotation indices are rune offsets into the message text. Center
	// a window on the marker so the snippet shows the cited sentence.
	start, end := ann.StartIndex, ann.EndIndex
	if start < 0 || end < start || end > len(runes) {
		return truncateRunes(messageText, s.opts.SnippetLength)
	}

	half := s.opts.SnippetLength / 2
	lo := start - half
	if lo < 0 {
		lo = 0
	}
	hi := end + half
	if hi > len(runes) {
		hi = len(runes)
	}

	snippet := strings.TrimSpace(stripMarker(string(runes[lo:hi]), ann.Text))
	if snippet == "" {
		snippet = truncateRunes(messageText, s.opts.SnippetLength)
	}
	return truncateRunes(snippet, s.opts.SnippetLength)
}

// stripMarker removes the inline citation marker (e.g. "【4:0†source】")
// from a snippet.
func stripMarker(text, marker string) string {
	if marker == "" {
		return text
	}
	return strings.ReplaceAll(text, marker, "")
}

// truncateRunes caps s at n runes, appending an ellipsis when truncated.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(runes[:n]))
}
