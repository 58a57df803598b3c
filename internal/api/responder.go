package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

// Mode identifies whether AI calls are live or synthesized.
type Mode string

const (
	// ModeLive performs real Anthropic API calls and records them.
	ModeLive Mode = "live"
	// ModeMock replays recordings or synthesizes scenario responses.
	ModeMock Mode = "mock"
)

// Responder is the single entry point validators use for AI calls. The
// concrete implementation is fixed at construction and never changes
// for the life of the process.
type Responder interface {
	// Response executes one AI request and returns the response.
	Response(ctx context.Context, req Request) (*Response, error)
	// Mode reports whether this responder is live or mock.
	Mode() Mode
}

// ResponderConfig configures responder construction.
type ResponderConfig struct {
	// APIKey is the Anthropic credential. Presence selects live mode;
	// absence selects mock mode. Ignored when UseAWSBedrock is set.
	APIKey string
	// UseAWSBedrock selects live mode backed by AWS Bedrock credentials.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock.
	AWSRegion string
	// AWSProfile is the optional AWS profile for Bedrock.
	AWSProfile string
	// Model is the default model for requests that don't name one.
	Model string
	// RecordingPath is the recording store location. Empty keeps the
	// store in memory only.
	RecordingPath string
	// Tracker receives usage accounting. Required.
	Tracker *UsageTracker
}

// NewResponder builds the process-wide responder. Live when a usable
// credential is present, mock otherwise. The decision is made exactly
// once, here.
func NewResponder(cfg ResponderConfig) (Responder, error) {
	if cfg.Tracker == nil {
		return nil, fmt.Errorf("usage tracker is required")
	}

	store, err := OpenRecordingStore(cfg.RecordingPath)
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" && !cfg.UseAWSBedrock {
		log.Printf("[ai] no credential configured, using mock responder (%d recordings loaded)", store.Len())
		return NewMockResponder(cfg.Model, store, cfg.Tracker), nil
	}

	client, err := NewClient(ClientConfig{
		Model:         anthropic.Model(cfg.Model),
		APIKey:        cfg.APIKey,
		UseAWSBedrock: cfg.UseAWSBedrock,
		AWSRegion:     cfg.AWSRegion,
		AWSProfile:    cfg.AWSProfile,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ai] credential present, using live responder (model %s)", client.Model())
	return NewLiveResponder(client, store, cfg.Tracker), nil
}

// LiveResponder performs real Anthropic API calls and unconditionally
// records every interaction for later replay.
type LiveResponder struct {
	client  *Client
	store   *RecordingStore
	tracker *UsageTracker
}

// NewLiveResponder creates a live responder.
func NewLiveResponder(client *Client, store *RecordingStore, tracker *UsageTracker) *LiveResponder {
	return &LiveResponder{
		client:  client,
		store:   store,
		tracker: tracker,
	}
}

// Mode returns ModeLive.
func (r *LiveResponder) Mode() Mode {
	return ModeLive
}

// Response executes the request against the Anthropic API, tracks
// usage, and records the interaction.
func (r *LiveResponder) Response(ctx context.Context, req Request) (*Response, error) {
	model := r.client.Model()
	if req.Model != "" {
		model = r.client.TranslateModel(anthropic.Model(req.Model))
	}

	resp, err := r.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: 8192,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("API call failed: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(variant.Text)
		}
	}

	cost := CostFor(string(model), resp.Usage.InputTokens, resp.Usage.OutputTokens)
	r.tracker.Add(req.ValidatorID, resp.Usage.InputTokens, resp.Usage.OutputTokens, cost)

	out := &Response{
		Content:    content.String(),
		Model:      string(model),
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
		Cost:       cost,
		Confidence: 1.0,
		Timestamp:  time.Now().UTC(),
	}

	rec := RecordedInteraction{
		RequestHash: RequestHash(req.Prompt, req.ValidatorID, req.ContentType),
		Prompt:      req.Prompt,
		Response:    *out,
		ValidatorID: req.ValidatorID,
		ContentType: req.ContentType,
		RealAIUsed:  true,
	}
	if err := r.store.Record(rec); err != nil {
		// A failed recording must not fail the validation call.
		log.Printf("[ai] record interaction %s: %v", rec.RequestHash[:12], err)
	}

	return out, nil
}

// Store exposes the recording store, used by the Seeder and by status
// commands.
func (r *LiveResponder) Store() *RecordingStore {
	return r.store
}
