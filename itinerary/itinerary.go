// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package itinerary

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/tripsync/models"
)

// Request carries the trip parameters and, for group trips, the poll's
// aggregated preferences.
type Request struct {
	Destination    string                `json:"destination"`
	TripType       string                `json:"tripType"`
	GroupType      string                `json:"groupType"`
	GroupSize      int                   `json:"groupSize"`
	DepartDate     string                `json:"departDate"`
	ReturnDate     string                `json:"returnDate"`
	Budget         string                `json:"budget"`
	NeedsFlights   bool                  `json:"needsFlights"`
	SourceLocation string                `json:"sourceLocation,omitempty"`
	ReturnLocation string                `json:"returnLocation,omitempty"`
	StayType       string                `json:"stayType,omitempty"`
	CustomStay     string                `json:"customStay,omitempty"`
	SpecificPlaces string                `json:"specificPlaces,omitempty"`
	Preferences    *models.PreferenceSet `json:"preferences,omitempty"`
}

type Activity struct {
	Time          string `json:"time"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location,omitempty"`
	EstimatedCost string `json:"estimatedCost,omitempty"`
}

type Day struct {
	Day        int        `json:"day"`
	Date       string     `json:"date,omitempty"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

type Flight struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Date    string `json:"date"`
	Airline string `json:"airline,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Itinerary is what a Generator always returns. A degraded result is still
// an Itinerary, flagged through Error, GenerationError and Warning.
type Itinerary struct {
	Destination   string   `json:"destination"`
	Summary       string   `json:"summary"`
	Accommodation string   `json:"accommodation,omitempty"`
	Days          []Day    `json:"days"`
	Flights       []Flight `json:"flights,omitempty"`
	Tips          []string `json:"tips,omitempty"`

	Error           string `json:"error,omitempty"`
	GenerationError string `json:"generationError,omitempty"`
	Warning         string `json:"warning,omitempty"`
}

// Usable reports whether the itinerary came from a successful generation.
// Receiving an Itinerary and being able to use it are separate checks.
func (it Itinerary) Usable() bool {
	return it.Error == "" && it.GenerationError == "" && len(it.Days) > 0
}

// Generator never returns an error: failures come back as a flagged
// fallback Itinerary.
type Generator interface {
	Generate(ctx context.Context, req Request) Itinerary
}

// Fallback builds a generic but structurally valid itinerary for req,
// flagged with the generation failure.
func Fallback(req Request, cause error) Itinerary {
	msg := "itinerary generation failed"
	if cause != nil {
		msg = cause.Error()
	}

	days := tripLength(req.DepartDate, req.ReturnDate)
	plan := make([]Day, 0, days)
	for i := 1; i <= days; i++ {
		plan = append(plan, Day{
			Day:   i,
			Date:  dayDate(req.DepartDate, i-1),
			Theme: fmt.Sprintf("Explore %s", req.Destination),
			Activities: []Activity{
				{Time: "Morning", Title: "Neighbourhood walk", Description: "Get oriented around where you are staying."},
				{Time: "Afternoon", Title: "Local highlights", Description: "Visit the sights the group agreed on."},
				{Time: "Evening", Title: "Dinner together", Description: "Try a well reviewed local restaurant."},
			},
		})
	}

	return Itinerary{
		Destination:     req.Destination,
		Summary:         fmt.Sprintf("A basic %d day plan for %s.", days, req.Destination),
		Days:            plan,
		Error:           "generation_failed",
		GenerationError: msg,
		Warning:         "We could not generate a personalised itinerary. This is a generic plan; please try again.",
	}
}

const dateLayout = "2006-01-02"

// tripLength counts days inclusively, falling back to 3 when the dates are
// missing or unusable.
func tripLength(depart, ret string) int {
	const defaultDays = 3
	d, err := time.Parse(dateLayout, depart)
	if err != nil {
		return defaultDays
	}
	r, err := time.Parse(dateLayout, ret)
	if err != nil || r.Before(d) {
		return defaultDays
	}
	n := int(r.Sub(d).Hours()/24) + 1
	if n > 14 {
		n = 14
	}
	return n
}

func dayDate(depart string, offset int) string {
	d, err := time.Parse(dateLayout, depart)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, offset).Format(dateLayout)
}
