// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/danielhkuo/tripsync/models"
)

type fakeModel struct {
	text   string
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}}},
		},
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRequest() Request {
	prefs := models.PreferenceSet{
		Accommodation: "Hostels",
		Activities:    []string{"Nightlife", "Museums and Culture"},
		Budget:        "Moderate",
		Food:          []string{"Street Food"},
		Transport:     "Public Transport",
	}
	return Request{
		Destination: "Lisbon",
		GroupType:   "friends",
		GroupSize:   4,
		DepartDate:  "2026-06-01",
		ReturnDate:  "2026-06-03",
		Budget:      "Moderate",
		Preferences: &prefs,
	}
}

func TestGemini_Generate(t *testing.T) {
	model := &fakeModel{text: "```json\n{\"summary\":\"Three nights out\",\"days\":[{\"day\":1,\"theme\":\"Alfama\",\"activities\":[]}],\"error\":\"x\"}\n```"}
	g := NewGemini(model, "gemini-test", discardLogger())

	it := g.Generate(context.Background(), testRequest())

	assert.True(t, it.Usable())
	assert.Equal(t, "Lisbon", it.Destination)
	assert.Equal(t, "Three nights out", it.Summary)
	assert.Empty(t, it.Error, "markers from the model are discarded")

	assert.Contains(t, model.prompt, "Hostels")
	assert.Contains(t, model.prompt, "Nightlife, Museums and Culture")
	assert.Contains(t, model.prompt, "2026-06-01 to 2026-06-03")
}

func TestGemini_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"api error", &fakeModel{err: errors.New("quota exceeded")}},
		{"empty text", &fakeModel{text: ""}},
		{"not json", &fakeModel{text: "Sorry, I can't help with that."}},
		{"no days", &fakeModel{text: `{"summary":"nothing"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewGemini(tt.model, "gemini-test", discardLogger()).Generate(context.Background(), testRequest())

			assert.False(t, it.Usable())
			assert.NotEmpty(t, it.Error)
			assert.NotEmpty(t, it.GenerationError)
			assert.NotEmpty(t, it.Warning)
			assert.Len(t, it.Days, 3, "fallback still covers the trip dates")
		})
	}
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON(`Here you go: {"a":1} enjoy`))
	assert.Equal(t, "plain", cleanJSON("  plain "))
}

func TestBuildPrompt_NoPreferences(t *testing.T) {
	req := testRequest()
	req.Preferences = nil
	req.NeedsFlights = true
	req.SourceLocation = "Berlin"

	prompt := buildPrompt(req)
	assert.NotContains(t, prompt, "voted")
	assert.Contains(t, prompt, "from Berlin and back to Berlin")
}

func TestFallback(t *testing.T) {
	it := Fallback(Request{Destination: "Oslo"}, nil)
	require.Len(t, it.Days, 3)
	assert.Equal(t, "itinerary generation failed", it.GenerationError)
	assert.False(t, it.Usable())

	long := Fallback(Request{Destination: "Oslo", DepartDate: "2026-01-01", ReturnDate: "2026-03-01"}, errors.New("boom"))
	assert.Len(t, long.Days, 14)
	assert.Equal(t, "2026-01-01", long.Days[0].Date)
}

func TestOffline_UsesPreferences(t *testing.T) {
	req := testRequest()
	req.NeedsFlights = true
	req.SourceLocation = "Berlin"

	it := Offline{}.Generate(context.Background(), req)

	require.True(t, it.Usable())
	require.Len(t, it.Days, 3)
	assert.Equal(t, "Nightlife", it.Days[0].Theme)
	assert.Equal(t, "Museums and Culture", it.Days[1].Theme)
	assert.Equal(t, "Hostels", it.Accommodation)
	require.Len(t, it.Flights, 2)
	assert.True(t, strings.HasPrefix(it.Days[2].Activities[1].Description, "Dinner"))
}
