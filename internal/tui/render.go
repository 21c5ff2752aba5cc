package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/naveenspark/bidboard/pkg/domain"
)

// completionBar renders a 20-cell progress bar for profile completion.
func completionBar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct / 5
	return accentStyle.Render(strings.Repeat("█", filled)) +
		metaStyle.Render(strings.Repeat("░", 20-filled)) +
		" " + normalStyle.Render(fmt.Sprintf("%d%%", pct))
}

func renderProfile(data json.RawMessage) (string, error) {
	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("profile: %w", err)
	}
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("profile") + "  " + completionBar(p.CompletionPercentage()) + "\n")
	for _, k := range p.Keys() {
		if k == "completion_percentage" {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render(fmt.Sprintf("%-24s", k)), normalStyle.Render(truncStr(oneLine(p.String(k)), 60)))
	}
	return b.String(), nil
}

// decodeList accepts either a JSON array or a single object.
func decodeList[T any](data json.RawMessage) ([]T, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var one T
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, err
		}
		return []T{one}, nil
	}
	var many []T
	if err := json.Unmarshal(data, &many); err != nil {
		return nil, err
	}
	return many, nil
}

func renderProjects(data json.RawMessage) (string, error) {
	projects, err := decodeList[domain.Project](data)
	if err != nil {
		return "", fmt.Errorf("projects: %w", err)
	}
	if len(projects) == 0 {
		return metaStyle.Render("No projects found."), nil
	}
	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "%s %s %s\n",
			metaStyle.Render(fmt.Sprintf("#%-4d", p.ID)),
			selectedStyle.Render(truncStr(oneLine(p.Title), 40)),
			StatusBadge(p.Status))
		var meta []string
		if p.BudgetRange != "" {
			meta = append(meta, strings.TrimSpace(p.BudgetRange+" "+p.Currency))
		}
		if p.ProjectDuration != "" {
			meta = append(meta, p.ProjectDuration)
		}
		if skills := p.Skills(); len(skills) > 0 {
			meta = append(meta, strings.Join(skills, ", "))
		}
		if t := formatTime(p.CreatedAt); t != "" {
			meta = append(meta, t)
		}
		if len(meta) > 0 {
			b.WriteString("      " + dimStyle.Render(strings.Join(meta, " · ")) + "\n")
		}
		if p.Description != "" {
			b.WriteString("      " + normalStyle.Render(truncStr(oneLine(p.Description), 70)) + "\n")
		}
	}
	return b.String(), nil
}

func renderBids(data json.RawMessage) (string, error) {
	bids, err := decodeList[domain.Bid](data)
	if err != nil {
		return "", fmt.Errorf("bids: %w", err)
	}
	if len(bids) == 0 {
		return metaStyle.Render("No bids yet."), nil
	}
	var b strings.Builder
	for _, bid := range bids {
		fmt.Fprintf(&b, "%s %s %s %s %s\n",
			metaStyle.Render(fmt.Sprintf("#%-4d", bid.ID)),
			dimStyle.Render(fmt.Sprintf("project #%d", bid.ProjectID)),
			selectedStyle.Render(formatAmount(bid.BidAmount, bid.Currency)),
			StatusBadge(bid.Status),
			metaStyle.Render(formatTime(bid.CreatedAt)))
		if bid.CoverLetter != "" {
			b.WriteString("      " + normalStyle.Render(truncStr(oneLine(bid.CoverLetter), 70)) + "\n")
		}
	}
	return b.String(), nil
}

// contractRenderer renders contracts with signature links under staticURL.
func contractRenderer(staticURL string) func(json.RawMessage) (string, error) {
	return func(data json.RawMessage) (string, error) {
		contracts, err := decodeList[domain.Contract](data)
		if err != nil {
			return "", fmt.Errorf("contracts: %w", err)
		}
		if len(contracts) == 0 {
			return metaStyle.Render("No contracts found."), nil
		}
		var b strings.Builder
		for _, c := range contracts {
			fmt.Fprintf(&b, "%s %s %s %s\n",
				metaStyle.Render(fmt.Sprintf("#%-4d", c.ID)),
				dimStyle.Render(fmt.Sprintf("project #%d · bid #%d", c.ProjectID, c.BidID)),
				StatusBadge(c.Status),
				metaStyle.Render(formatTime(c.CreatedAt)))
			if c.TermsAndConditions != "" {
				b.WriteString("      " + normalStyle.Render(truncStr(oneLine(c.TermsAndConditions), 70)) + "\n")
			}
			b.WriteString("      " + signatureLine("client", staticURL, c.ClientSignaturePath) + "\n")
			b.WriteString("      " + signatureLine("provider", staticURL, c.ServiceProviderSignaturePath) + "\n")
			if c.AwaitingProvider() {
				b.WriteString("      " + warnStyle.Render("awaiting provider signature") + "\n")
			}
		}
		return b.String(), nil
	}
}

func signatureLine(who, staticURL, path string) string {
	label := metaStyle.Render(fmt.Sprintf("%-9s", who))
	if path == "" {
		return label + dimStyle.Render("unsigned")
	}
	return label + accentStyle.Render(staticURL+"/"+strings.TrimLeft(path, "/"))
}
