package gemini

import (
	"context"
	"fmt"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"google.golang.org/genai"
)

// EmbedDocuments embeds texts for retrieval in one batch call.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return c.embed(ctx, texts, taskTypeRetrievalDocument)
}

// EmbedQuery embeds a search query with the same model used for documents.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{text}, taskTypeRetrievalQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}

	resp, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, contents, &genai.EmbedContentConfig{TaskType: taskType})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: gemini returned %d embeddings for %d texts",
			apperrors.ErrMalformedResponse, len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at %d", apperrors.ErrMalformedResponse, i)
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}
