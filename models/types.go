// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Request types

type CreatePollRequest struct {
	Destination    string   `json:"destination"`
	TripType       string   `json:"tripType"`
	GroupType      string   `json:"groupType"`
	GroupSize      int      `json:"groupSize"`
	DepartDate     string   `json:"departDate"`
	ReturnDate     string   `json:"returnDate"`
	Budget         string   `json:"budget"`
	NeedsFlights   bool     `json:"needsFlights"`
	OrganizerEmail string   `json:"organizerEmail"`
	MemberEmails   []string `json:"memberEmails"`
}

type AnswerInput struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

type SubmitResponseRequest struct {
	ResponderEmail string        `json:"responderEmail"`
	Responses      []AnswerInput `json:"responses"`
}

type GenerateItineraryRequest struct {
	ForceEarly     bool   `json:"forceEarly"`
	SourceLocation string `json:"sourceLocation"`
	ReturnLocation string `json:"returnLocation"`
	StayType       string `json:"stayType"`
	CustomStay     string `json:"customStay"`
	SpecificPlaces string `json:"specificPlaces"`
}

// Response types

type CreatePollResponse struct {
	PollID            string `json:"pollId"`
	PollURL           string `json:"pollUrl"`
	OrganizerKey      string `json:"organizerKey"`
	InvitationsSent   int    `json:"invitationsSent"`
	InvitationsFailed int    `json:"invitationsFailed"`
}

type SubmitResponseResponse struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submissionId"`
	Credited     bool   `json:"credited"`
	Message      string `json:"message"`
}

type PollWithQuestions struct {
	Poll      Poll           `json:"poll"`
	Questions []PollQuestion `json:"questions"`
}

type ActivePollResponse struct {
	Email        string  `json:"email"`
	ActivePollID *string `json:"activePollId"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
