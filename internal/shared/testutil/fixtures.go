package testutil

import "leadscope/pkg/contracts/domain"

// Meeting returns a valid meeting for name and email.
func Meeting(name, email string) domain.ClientMeeting {
	return domain.ClientMeeting{
		Nombre:           name,
		Correo:           email,
		Telefono:         "+56 9 1234 5678",
		VendedorAsignado: "Boris",
		FechaReunion:     "2024-01-15",
		Transcripcion:    "Recibimos muchas consultas y no damos abasto.",
	}
}

// ClassificationOption customises a fixture classification.
type ClassificationOption func(*domain.ClientClassification)

// WithClosed sets the closed flag.
func WithClosed(closed bool) ClassificationOption {
	return func(c *domain.ClientClassification) { c.IsClosed = &closed }
}

// WithMeetingDate sets the meeting date text.
func WithMeetingDate(date string) ClassificationOption {
	return func(c *domain.ClientClassification) { c.MeetingDate = date }
}

// WithSalesperson sets the assigned salesperson.
func WithSalesperson(name string) ClassificationOption {
	return func(c *domain.ClientClassification) { c.AssignedSalesperson = name }
}

// WithIndustry sets the industry label.
func WithIndustry(i domain.Industry) ClassificationOption {
	return func(c *domain.ClientClassification) { c.Industry = i }
}

// WithLeadSource sets the lead source label.
func WithLeadSource(s domain.LeadSource) ClassificationOption {
	return func(c *domain.ClientClassification) { c.LeadSource = s }
}

// WithUrgency sets the urgency label.
func WithUrgency(u domain.Urgency) ClassificationOption {
	return func(c *domain.ClientClassification) { c.Urgency = u }
}

// Classification returns a classification populated with default labels.
func Classification(name, email string, opts ...ClassificationOption) domain.ClientClassification {
	c := domain.ClientClassification{
		ClientName:        name,
		Email:             email,
		Industry:          domain.DefaultIndustry,
		LeadSource:        domain.DefaultLeadSource,
		InteractionVolume: domain.DefaultInteractionVolume,
		MainPainPoint:     domain.DefaultMainPainPoint,
		TechMaturity:      domain.DefaultTechMaturity,
		Urgency:           domain.DefaultUrgency,
		Confidence:        0.9,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
