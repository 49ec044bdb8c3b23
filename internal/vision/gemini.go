package vision

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrUnreadable means the model saw the image but could not extract a valid
// numeric reading from it. It is a content outcome, distinct from transport
// or API failures which are returned as ordinary wrapped errors.
var ErrUnreadable = errors.New("measurement could not be read from image")

const meterPrompt = `Analyze the utility meter image and return the measured value.
If reading is not possible, return 'UNREADABLE_MEASUREMENT'.
Only valid numbers are considered.`

const unreadableMarker = "UNREADABLE_MEASUREMENT"

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Reading is the outcome of a successful inference call. RawText and Model
// are kept so the workflow can persist what the model actually answered.
type Reading struct {
	Value   float64
	RawText string
	Model   string
}

// GeminiReader extracts meter values from photos using Google Gemini
type GeminiReader struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewGeminiReader creates a Gemini-backed meter reader
func NewGeminiReader(apiKey, modelName string) (*GeminiReader, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiReader{
		client:    client,
		model:     client.GenerativeModel(modelName),
		modelName: modelName,
	}, nil
}

// Read sends the image to Gemini and parses the numeric reading out of the
// model's answer. mimeType may be empty; it is then sniffed from the bytes.
func (g *GeminiReader) Read(ctx context.Context, image []byte, mimeType string) (*Reading, error) {
	if mimeType == "" {
		mimeType = DetectImageMIMEType(image)
	}

	resp, err := g.model.GenerateContent(ctx,
		genai.Text(meterPrompt),
		genai.Blob{
			MIMEType: mimeType,
			Data:     image,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no content returned from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	value, err := parseReading(responseText.String())
	if err != nil {
		return nil, err
	}

	return &Reading{
		Value:   value,
		RawText: strings.TrimSpace(responseText.String()),
		Model:   g.modelName,
	}, nil
}

// Close closes the underlying Gemini client
func (g *GeminiReader) Close() error {
	return g.client.Close()
}

// parseReading extracts the first non-negative numeric token from the model
// output. An explicit unreadable marker or a response without any number
// yields ErrUnreadable.
func parseReading(text string) (float64, error) {
	text = strings.TrimSpace(text)

	if strings.Contains(text, unreadableMarker) {
		return 0, ErrUnreadable
	}

	token := numberPattern.FindString(text)
	if token == "" {
		return 0, ErrUnreadable
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, ErrUnreadable
	}

	return value, nil
}
