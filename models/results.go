// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// QuestionResult is the tally for one question.
type QuestionResult struct {
	QuestionID     string         `json:"questionId"`
	QuestionText   string         `json:"questionText"`
	QuestionType   QuestionType   `json:"questionType"`
	Options        []string       `json:"options"`
	ResponseCounts map[string]int `json:"responseCounts"`
	TotalResponses int            `json:"totalResponses"`
	MajorityChoice *string        `json:"majorityChoice"` // nil when nobody answered
	MajorityCount  int            `json:"majorityCount"`
}

type CategoryResult struct {
	Questions       []QuestionResult `json:"questions"`
	MajorityChoices []string         `json:"majorityChoices"`
}

type PollStatus struct {
	TotalMembers     int  `json:"totalMembers"`
	RespondedMembers int  `json:"respondedMembers"`
	ResponseRate     int  `json:"responseRate"`
	IsComplete       bool `json:"isComplete"`
}

// PreferenceSet is the flattened majority view handed to itinerary
// generation. Single choice categories are scalars, multiple choice
// categories are lists.
type PreferenceSet struct {
	Accommodation string   `json:"accommodation"`
	Activities    []string `json:"activities"`
	Budget        string   `json:"budget"`
	Food          []string `json:"food"`
	Transport     string   `json:"transport"`
}

// DefaultPreferences is the PreferenceSet of a poll with no responses.
func DefaultPreferences() PreferenceSet {
	return PreferenceSet{
		Accommodation: NoPreference,
		Activities:    []string{},
		Budget:        NoPreference,
		Food:          []string{},
		Transport:     NoPreference,
	}
}

type AggregateResult struct {
	Poll              Poll                        `json:"poll"`
	PollStatus        PollStatus                  `json:"pollStatus"`
	ResultsByCategory map[Category]CategoryResult `json:"resultsByCategory"`
	Preferences       PreferenceSet               `json:"preferences"`
}
