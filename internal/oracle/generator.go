package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	aiplatform "google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/option"
)

const (
	DefaultModel          = "gemini-1.5-flash"
	publisherModelsPrefix = "publishers/google/models/"
)

var errEmptyResponse = errors.New("empty oracle response")

//go:generate mockgen -source=$GOFILE -destination=generator_mocks_test.go -package=oracle_test

type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// apiKeyTransport authenticates requests with the API key header. Keys set
// through option.WithAPIKey are ignored once a custom http client is used.
type apiKeyTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("x-goog-api-key", t.apiKey)
	return t.base.RoundTrip(r)
}

// GeminiGenerator is a text generator backed by the Gemini publisher models
// of the Vertex AI API, authenticated with an express mode API key.
type GeminiGenerator struct {
	service *aiplatform.Service
	model   string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key not set")
	}
	if model == "" {
		model = DefaultModel
	}
	model = strings.TrimPrefix(model, "models/")
	if !strings.HasPrefix(model, publisherModelsPrefix) {
		model = publisherModelsPrefix + model
	}

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(&apiKeyTransport{
			apiKey: apiKey,
			base:   http.DefaultTransport,
		}),
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	// https://github.com/googleapis/google-api-go-client/tree/main/aiplatform/v1
	service, err := aiplatform.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create aiplatform service: %w", err)
	}

	return &GeminiGenerator{
		service: service,
		model:   model,
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.service.Publishers.Models.GenerateContent(g.model, &aiplatform.GoogleCloudAiplatformV1GenerateContentRequest{
		Contents: []*aiplatform.GoogleCloudAiplatformV1Content{
			{
				Role:  "user",
				Parts: []*aiplatform.GoogleCloudAiplatformV1Part{{Text: prompt}},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}
