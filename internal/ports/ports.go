package ports

import (
	"context"

	"CompanyScout/internal/domain"
)

// ChatClient sends one system/user exchange to a hosted language model and
// returns the raw text of a JSON-object shaped reply.
type ChatClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LeadRun is a finished discovery run handed to archive sinks.
type LeadRun struct {
	ID        string
	Queries   []string
	Articles  int
	Companies []domain.RankedCompany
}

// LeadRepository archives ranked leads for later review by the shell.
type LeadRepository interface {
	SaveRun(ctx context.Context, run LeadRun) error
	RecentLeads(ctx context.Context, limit int) ([]domain.RankedCompany, error)
}

// Notifier streams a lead digest to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}
