package profile

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var defaultProfile []byte

// Personal identifies the site owner.
type Personal struct {
	Name     string `yaml:"name" json:"name"`
	Title    string `yaml:"title" json:"title"`
	Focus    string `yaml:"focus" json:"focus"`
	Location string `yaml:"location" json:"location"`
	Email    string `yaml:"email" json:"email"`
}

type Education struct {
	Current  string `yaml:"current" json:"current"`
	Previous string `yaml:"previous" json:"previous"`
	GPA      string `yaml:"gpa" json:"gpa"`
	Honors   string `yaml:"honors" json:"honors"`
}

type Experience struct {
	Role       string   `yaml:"role" json:"role"`
	Company    string   `yaml:"company" json:"company"`
	Period     string   `yaml:"period" json:"period"`
	Location   string   `yaml:"location" json:"location"`
	Highlights []string `yaml:"highlights" json:"highlights"`
}

// Skills holds the three named skill categories, each in display order.
type Skills struct {
	Programming     []string `yaml:"programming" json:"programming"`
	Tools           []string `yaml:"tools" json:"tools"`
	Specializations []string `yaml:"specializations" json:"specializations"`
}

type Project struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Tech        []string `yaml:"tech" json:"tech"`
	Impact      string   `yaml:"impact" json:"impact"`
}

// Profile is the owner's fact sheet. It is built once by Load and never
// modified afterwards; callers share it by pointer and must treat it as
// read-only.
type Profile struct {
	Personal   Personal     `yaml:"personal" json:"personal"`
	Education  Education    `yaml:"education" json:"education"`
	Experience []Experience `yaml:"experience" json:"experience"`
	Skills     Skills       `yaml:"skills" json:"skills"`
	Projects   []Project    `yaml:"projects" json:"projects"`
	Interests  []string     `yaml:"interests" json:"interests"`
}

var ErrIncomplete = errors.New("incomplete profile")

// Load parses a YAML fact sheet. It returns an error rather than a partially
// filled profile when a required part is missing.
func Load(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Default returns the embedded fact sheet.
func Default() (*Profile, error) {
	return Load(defaultProfile)
}

func (p *Profile) validate() error {
	switch {
	case p.Personal.Name == "":
		return fmt.Errorf("%w: personal.name is empty", ErrIncomplete)
	case p.Personal.Email == "":
		return fmt.Errorf("%w: personal.email is empty", ErrIncomplete)
	case p.Education.Current == "":
		return fmt.Errorf("%w: education.current is empty", ErrIncomplete)
	case len(p.Experience) == 0:
		return fmt.Errorf("%w: no experience entries", ErrIncomplete)
	case len(p.Skills.Programming) == 0 || len(p.Skills.Tools) == 0 || len(p.Skills.Specializations) == 0:
		return fmt.Errorf("%w: every skill category needs at least one entry", ErrIncomplete)
	case len(p.Projects) == 0:
		return fmt.Errorf("%w: no projects", ErrIncomplete)
	}
	return nil
}

// CurrentRole is the first experience entry.
func (p *Profile) CurrentRole() Experience {
	return p.Experience[0]
}

// PreviousRole is the second experience entry, if any.
func (p *Profile) PreviousRole() (Experience, bool) {
	if len(p.Experience) < 2 {
		return Experience{}, false
	}
	return p.Experience[1], true
}
