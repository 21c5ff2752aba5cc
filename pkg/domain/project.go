package domain

import (
	"strings"
	"time"
)

// Project is a client-posted job.
type Project struct {
	ID                   int64      `json:"id"`
	ClientID             int64      `json:"client_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	BudgetRange          string     `json:"budget_range,omitempty"`
	Currency             string     `json:"currency,omitempty"`
	ProjectDuration      string     `json:"project_duration,omitempty"`
	SkillsRequired       string     `json:"skills_required,omitempty"`
	Status               string     `json:"status,omitempty"`
	SubmissionPDFPath    string     `json:"submission_pdf_path,omitempty"`
	SubmissionGitHubLink string     `json:"submission_github_link,omitempty"`
	EscrowFunded         string     `json:"escrow_funded,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// Skills splits the comma-separated skills string, dropping blanks.
func (p Project) Skills() []string {
	var out []string
	for _, s := range strings.Split(p.SkillsRequired, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
