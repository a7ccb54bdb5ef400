package completion

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joeyaochen/portfolio/internal/profile"
)

// SystemPrompt renders the fixed assistant instruction for p.
func SystemPrompt(p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s's AI assistant on his personal website. Your role is to help visitors learn about %s's background, projects, and experience in a friendly and informative way.\n\n",
		p.Personal.Name, first(p))

	fmt.Fprintf(&b, "Key information about %s:\n", first(p))
	fmt.Fprintf(&b, "- Name: %s\n", p.Personal.Name)
	fmt.Fprintf(&b, "- Title: %s\n", p.Personal.Title)
	fmt.Fprintf(&b, "- Focus: %s\n", p.Personal.Focus)
	fmt.Fprintf(&b, "- Location: %s\n", p.Personal.Location)
	fmt.Fprintf(&b, "- Email: %s\n\n", p.Personal.Email)

	b.WriteString("Education:\n")
	fmt.Fprintf(&b, "- %s\n", p.Education.Current)
	if p.Education.Previous != "" {
		fmt.Fprintf(&b, "- %s\n", p.Education.Previous)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Experience: %s\n", compactJSON(p.Experience))
	fmt.Fprintf(&b, "Skills: %s\n", compactJSON(p.Skills))
	fmt.Fprintf(&b, "Projects: %s\n\n", compactJSON(p.Projects))

	fmt.Fprintf(&b, `Guidelines:
1. Be helpful, friendly, and professional
2. Focus on %[1]s's work and qualifications
3. Encourage visitors to explore the website or contact %[1]s
4. If asked about something not in %[1]s's profile, politely redirect to relevant information
5. Keep responses concise but informative
6. Use a conversational tone
7. Don't make up information not provided in the context`, first(p))

	return b.String()
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func first(p *profile.Profile) string {
	name, _, _ := strings.Cut(p.Personal.Name, " ")
	return name
}
