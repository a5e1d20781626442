// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package itinerary

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielhkuo/tripsync/models"
)

// Offline builds a simple itinerary from the group's preferences without
// calling a model. It is used when no API key is configured.
type Offline struct{}

func (Offline) Generate(_ context.Context, req Request) Itinerary {
	prefs := models.DefaultPreferences()
	if req.Preferences != nil {
		prefs = *req.Preferences
	}

	activities := prefs.Activities
	if len(activities) == 0 {
		activities = []string{"Sightseeing"}
	}
	food := "Local Cuisine"
	if len(prefs.Food) > 0 {
		food = prefs.Food[0]
	}

	days := tripLength(req.DepartDate, req.ReturnDate)
	plan := make([]Day, 0, days)
	for i := 1; i <= days; i++ {
		focus := activities[(i-1)%len(activities)]
		plan = append(plan, Day{
			Day:   i,
			Date:  dayDate(req.DepartDate, i-1),
			Theme: focus,
			Activities: []Activity{
				{Time: "Morning", Title: focus, Description: fmt.Sprintf("%s in %s.", focus, req.Destination)},
				{Time: "Evening", Title: food, Description: fmt.Sprintf("Dinner: %s.", strings.ToLower(food))},
			},
		})
	}

	it := Itinerary{
		Destination: req.Destination,
		Summary:     fmt.Sprintf("%d days in %s.", days, req.Destination),
		Days:        plan,
		Warning:     "Generated without an AI model.",
	}
	if prefs.Accommodation != models.NoPreference {
		it.Accommodation = prefs.Accommodation
	}
	if req.NeedsFlights && req.SourceLocation != "" {
		it.Flights = []Flight{
			{From: req.SourceLocation, To: req.Destination, Date: req.DepartDate},
			{From: req.Destination, To: orDefault(req.ReturnLocation, req.SourceLocation), Date: req.ReturnDate},
		}
	}
	return it
}
