// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"strings"

	"github.com/danielhkuo/tripsync/models"
)

type questionTemplate struct {
	category models.Category
	text     string
	qType    models.QuestionType
	options  []string
}

var questionSet = []questionTemplate{
	{
		category: models.CategoryAccommodation,
		text:     "What type of accommodation do you prefer?",
		qType:    models.SingleChoice,
		options:  []string{"Hotels", "Hostels", "Vacation Rentals", "Luxury Hotels", "Camping"},
	},
	{
		category: models.CategoryActivities,
		text:     "Which activities interest you most?",
		qType:    models.MultipleChoice,
		options:  []string{"Sightseeing", "Outdoor Adventures", "Museums and Culture", "Nightlife", "Relaxation", "Shopping"},
	},
	{
		category: models.CategoryBudget,
		text:     "What budget level works for you?",
		qType:    models.SingleChoice,
		options:  []string{"Budget-friendly", "Moderate", "Luxury"},
	},
	{
		category: models.CategoryFood,
		text:     "What kind of food do you want to try?",
		qType:    models.MultipleChoice,
		options:  []string{"Local Cuisine", "Fine Dining", "Street Food", "Vegetarian or Vegan", "Fast Food"},
	},
	{
		category: models.CategoryTransport,
		text:     "How would you like to get around?",
		qType:    models.SingleChoice,
		options:  []string{"Public Transport", "Rental Car", "Walking or Biking", "Taxis and Rideshare"},
	},
}

// TemplateQuestions returns the fixed five question set for a new poll.
func TemplateQuestions(pollID, budget string, newID func() string) []models.PollQuestion {
	questions := make([]models.PollQuestion, 0, len(questionSet))
	for i, tq := range questionSet {
		text := tq.text
		if tq.category == models.CategoryBudget && strings.TrimSpace(budget) != "" {
			text = "The organizer set the budget to " + strings.TrimSpace(budget) + ". How should we spend it?"
		}
		questions = append(questions, models.PollQuestion{
			ID:       newID(),
			PollID:   pollID,
			Position: i,
			Category: tq.category,
			Text:     text,
			Type:     tq.qType,
			Options:  append([]string(nil), tq.options...),
		})
	}
	return questions
}
