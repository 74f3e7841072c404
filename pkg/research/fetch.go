package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/api"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/azure"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/debug"
)

const fetchAssistantInstructions = `You are a document retrieval assistant. Use the file_search tool to locate the requested document and return its complete content verbatim. Do not summarize, paraphrase, or omit sections. Return only the document text.`

// Fetch retrieves the full content of the document with the given file
// ID. The result's ID always echoes the request. An identifier unknown to
// the vector store yields an error or an empty text, never a panic.
func (s *Service) Fetch(ctx context.Context, id string) (*api.FetchResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, api.NewInvalidRequestError("id", "document id must not be empty")
	}

	sess, err := s.begin(ctx, "research-mcp fetch", fetchAssistantInstructions)
	if err != nil {
		return nil, err
	}
	defer sess.release(ctx)

	prompt := fmt.Sprintf(
		"Retrieve and return the complete verbatim content of the document with file ID %q.", id)
	if _, err := s.client.CreateMessage(ctx, sess.threadID, azure.CreateMessageRequest{
		Role:    "user",
		Content: prompt,
	}); err != nil {
		return nil, err
	}

	run, err := sess.runToCompletion(ctx, "fetch")
	if err != nil {
		return nil, err
	}

	reply, err := sess.assistantReply(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	text := ""
	if reply != nil {
		text = messageText(reply)
	}

	titles := make(map[string]string)
	result := &api.FetchResult{
		ID:    id,
		Title: s.fileTitle(ctx, titles, id),
		Text:  text,
		URL:   nil,
		Metadata: map[string]string{
			"assistant_id": sess.assistantID,
			"thread_id":    sess.threadID,
			"run_id":       run.ID,
			"run_status":   run.Status,
		},
	}

	debug.Log("research", "fetch completed", "id", id, "text_len", len(text))
	return result, nil
}

// messageText concatenates the text blocks of a message, stripping inline
// citation markers.
func messageText(msg *azure.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" || block.Text == nil {
			continue
		}
		text := block.Text.Value
		for _, ann := range block.Text.Annotations {
			text = stripMarker(text, ann.Text)
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}
	return b.String()
}
