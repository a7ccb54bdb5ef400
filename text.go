package main

import (
	"github.com/joeyaochen/portfolio/internal/filter"
	"github.com/joeyaochen/portfolio/internal/nav"
)

// Slide is one hero carousel panel.
type Slide struct {
	Title    string
	Subtitle string
	Image    string
	Section  string
	Action   string
}

var (
	AboutMe = `I'm a data science graduate student at Harvard working where statistics meets public health.
	Most of my work starts from a messy real-world dataset and a question that matters to patients or
	policymakers, and ends with a model, a dashboard, or a paper that someone can act on.
	Lately I've been focused on algorithmic fairness in clinical AI and on making health data easier to explore.
	Outside of research you'll find me running along the Charles, reading policy briefs, or learning Mandarin idioms.`

	Slides = []Slide{
		{
			Title:    "Data Science for Public Health",
			Subtitle: "Turning health data into decisions that improve outcomes.",
			Image:    "/images/hero-health.jpg",
			Section:  "projects",
			Action:   "View Projects",
		},
		{
			Title:    "AI Ethics Research",
			Subtitle: "Auditing clinical models for fairness and accountability.",
			Image:    "/images/hero-ethics.jpg",
			Section:  "writing",
			Action:   "Read My Writing",
		},
		{
			Title:    "Let's Work Together",
			Subtitle: "Open to research collaborations and data science roles.",
			Image:    "/images/hero-contact.jpg",
			Section:  "contact",
			Action:   "Get in Touch",
		},
	}

	ProjectTags = []filter.Tag{
		{Value: "data-science", Label: "Data Science"},
		{Value: "public-health", Label: "Public Health"},
		{Value: "ai", Label: "AI & Ethics"},
		{Value: "visualization", Label: "Visualization"},
	}

	ProjectCards = []filter.Item{
		{
			ID:          "public-health-dashboard",
			Title:       "Public Health Dashboard",
			Description: "Interactive dashboard analyzing health outcomes across demographics with real-time predictive modeling.",
			Categories:  []string{"public-health", "visualization", "data-science"},
			Tech:        []string{"Python", "Tableau", "SQL"},
		},
		{
			ID:          "ai-ethics-healthcare",
			Title:       "AI Ethics in Healthcare",
			Description: "Research on algorithmic fairness in medical AI systems, with bias detection and mitigation strategies.",
			Categories:  []string{"ai", "public-health"},
			Tech:        []string{"NLP", "Python", "Fairlearn"},
		},
		{
			ID:          "urban-mobility",
			Title:       "Urban Mobility Analysis",
			Description: "Geospatial analysis of urban transportation patterns using machine learning to predict mobility trends.",
			Categories:  []string{"data-science", "visualization"},
			Tech:        []string{"R", "GIS", "scikit-learn"},
		},
		{
			ID:          "symptom-extraction",
			Title:       "Clinical Symptom Extraction",
			Description: "NLP pipeline extracting symptoms from free-text patient notes with 92% accuracy.",
			Categories:  []string{"ai", "data-science"},
			Tech:        []string{"Python", "spaCy", "Kafka"},
		},
	}

	WritingTags = []filter.Tag{
		{Value: "research", Label: "Research"},
		{Value: "blog", Label: "Blog"},
		{Value: "notes", Label: "Notes"},
	}

	WritingItems = []filter.Item{
		{
			ID:          "fairness-audit",
			Title:       "Auditing Fairness in Clinical Risk Scores",
			Description: "A framework for measuring disparate performance of risk models across patient groups.",
			Categories:  []string{"research"},
			Meta:        "Journal of Health Informatics, 2024",
		},
		{
			ID:          "longitudinal-outcomes",
			Title:       "Predicting Longitudinal Health Outcomes",
			Description: "Mixed-effects models for 10,000+ patient records and what they taught us about missing data.",
			Categories:  []string{"research"},
			Meta:        "Public Health Reports, 2023",
		},
		{
			ID:          "dashboards-that-get-used",
			Title:       "Building Dashboards People Actually Use",
			Description: "Lessons from shipping health dashboards to busy public health teams.",
			Categories:  []string{"blog"},
			Meta:        "Mar 2024",
		},
		{
			ID:          "gis-primer",
			Title:       "A GIS Primer for Epidemiologists",
			Description: "Spatial joins, projections and the mistakes I made so you don't have to.",
			Categories:  []string{"notes"},
			Meta:        "Nov 2023",
		},
	}
)

// Sections lists the pages in navigation order. Cards counts the animated
// cards of each page.
func Sections() []nav.Section {
	return []nav.Section{
		{ID: "home", Label: "Home"},
		{ID: "about", Label: "About", Cards: 4},
		{ID: "projects", Label: "Projects", Cards: len(ProjectCards)},
		{ID: "writing", Label: "Writing", Cards: len(WritingItems)},
		{ID: "resume", Label: "Resume", Cards: 1},
		{ID: "contact", Label: "Contact", Cards: 3},
	}
}
