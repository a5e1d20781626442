// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const defaultTemperature = 0.7

var ErrEmptyResponse = errors.New("no content in model response")

// ContentModel is the part of the genai client the generator uses.
// *genai.Models satisfies it.
type ContentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gemini struct {
	models ContentModel
	model  string
	log    *slog.Logger
}

// NewGeminiClient connects to the Gemini API with apiKey.
func NewGeminiClient(ctx context.Context, apiKey, model string, log *slog.Logger) (*Gemini, error) {
	const op = "itinerary.NewGeminiClient"

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewGemini(client.Models, model, log), nil
}

func NewGemini(models ContentModel, model string, log *slog.Logger) *Gemini {
	return &Gemini{models: models, model: model, log: log}
}

func (g *Gemini) Generate(ctx context.Context, req Request) Itinerary {
	log := g.log.With(slog.String("destination", req.Destination), slog.String("model", g.model))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(req)), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](defaultTemperature),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		log.Error("itinerary generation failed", slog.Any("error", err))
		return Fallback(req, fmt.Errorf("generate content: %w", err))
	}

	var txt string
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			txt = candidate.Content.Parts[0].Text
			break
		}
	}
	if txt == "" {
		log.Error("itinerary generation returned nothing")
		return Fallback(req, ErrEmptyResponse)
	}

	var it Itinerary
	if err := json.Unmarshal([]byte(cleanJSON(txt)), &it); err != nil {
		log.Error("failed to parse itinerary", slog.Any("error", err))
		return Fallback(req, fmt.Errorf("parse itinerary: %w", err))
	}
	if len(it.Days) == 0 {
		log.Warn("itinerary has no days")
		return Fallback(req, errors.New("itinerary has no days"))
	}

	// Markers are ours to set, not the model's.
	it.Error, it.GenerationError, it.Warning = "", "", ""
	if it.Destination == "" {
		it.Destination = req.Destination
	}

	log.Info("itinerary generated", slog.Int("days", len(it.Days)))
	return it
}

// cleanJSON strips markdown code fences and any prose around the object.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return strings.TrimSpace(s)
}

func buildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan a %s trip to %s for a %s group of %d.\n", orDefault(req.TripType, "leisure"), req.Destination, orDefault(req.GroupType, "travel"), max(req.GroupSize, 1))
	if req.DepartDate != "" {
		fmt.Fprintf(&b, "Dates: %s to %s.\n", req.DepartDate, orDefault(req.ReturnDate, req.DepartDate))
	}
	if req.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s.\n", req.Budget)
	}
	if req.NeedsFlights {
		fmt.Fprintf(&b, "Suggest flights from %s", orDefault(req.SourceLocation, "the nearest major airport"))
		fmt.Fprintf(&b, " and back to %s.\n", orDefault(req.ReturnLocation, orDefault(req.SourceLocation, "the origin")))
	}
	if req.StayType != "" {
		fmt.Fprintf(&b, "Preferred stay: %s %s.\n", req.StayType, req.CustomStay)
	}
	if req.SpecificPlaces != "" {
		fmt.Fprintf(&b, "Must include: %s.\n", req.SpecificPlaces)
	}

	if p := req.Preferences; p != nil {
		b.WriteString("The group voted on these preferences:\n")
		fmt.Fprintf(&b, "- Accommodation: %s\n", p.Accommodation)
		fmt.Fprintf(&b, "- Activities: %s\n", joinOr(p.Activities))
		fmt.Fprintf(&b, "- Budget: %s\n", p.Budget)
		fmt.Fprintf(&b, "- Food: %s\n", joinOr(p.Food))
		fmt.Fprintf(&b, "- Transport: %s\n", p.Transport)
	}

	b.WriteString(`Respond with only a JSON object of the form {"destination": string, "summary": string, "accommodation": string, ` +
		`"days": [{"day": number, "date": "YYYY-MM-DD", "theme": string, "activities": [{"time": string, "title": string, ` +
		`"description": string, "location": string, "estimatedCost": string}]}], ` +
		`"flights": [{"from": string, "to": string, "date": string, "airline": string, "notes": string}], "tips": [string]}.`)

	return b.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func joinOr(values []string) string {
	if len(values) == 0 {
		return "no preference"
	}
	return strings.Join(values, ", ")
}
