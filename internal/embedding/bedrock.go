package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const DefaultTitanModelID = "amazon.titan-embed-text-v2:0"

var ErrNoEmbedding = errors.New("embedding provider returned no vector")

// BedrockInvoker is the subset of the bedrockruntime client used for embeddings.
type BedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions"`
	Normalize  bool   `json:"normalize"`
}

type titanResponse struct {
	Embedding []float32 `json:"embedding"`
}

type BedrockEmbedder struct {
	client     BedrockInvoker
	modelID    string
	dimensions int
}

func NewBedrockEmbedder(client BedrockInvoker, modelID string, dimensions int) *BedrockEmbedder {
	if modelID == "" {
		modelID = DefaultTitanModelID
	}
	if dimensions <= 0 {
		dimensions = 1024
	}
	return &BedrockEmbedder{
		client:     client,
		modelID:    modelID,
		dimensions: dimensions,
	}
}

func (e *BedrockEmbedder) Dimension() int {
	return e.dimensions
}

// Embed calls Titan once per text; Titan has no batch endpoint.
func (e *BedrockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vector, err := e.embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		embeddings = append(embeddings, vector)
	}
	return embeddings, nil
}

func (e *BedrockEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(titanRequest{
		InputText:  text,
		Dimensions: e.dimensions,
		Normalize:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("Unable to serialize titan request. Error: %w", err)
	}

	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("Unable to invoke titan model. Error: %w", err)
	}

	var response titanResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal titan response. Error: %w", err)
	}
	if len(response.Embedding) == 0 {
		return nil, ErrNoEmbedding
	}

	return response.Embedding, nil
}
