package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type Address struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type Authorization struct {
	USWorkAuthorized    bool   `json:"us_work_authorization"`
	RequiresSponsorship bool   `json:"requires_sponsorship"`
	Citizenship         string `json:"citizenship"`
}

type Personal struct {
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	FullName      string        `json:"full_name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	LinkedIn      string        `json:"linkedin,omitempty"`
	GitHub        string        `json:"github,omitempty"`
	Portfolio     string        `json:"portfolio,omitempty"`
	Address       Address       `json:"address"`
	Authorization Authorization `json:"authorization"`
}

type Education struct {
	School         string `json:"school"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	GPA            string `json:"gpa,omitempty"`
	GraduationYear string `json:"graduation_year"`
}

type Skills struct {
	Languages []string `json:"languages"`
	Tools     []string `json:"tools"`
}

type CompanyTiers struct {
	Dream  []string `json:"dream"`
	Reach  []string `json:"reach"`
	Safety []string `json:"safety"`
}

type Preferences struct {
	TargetRoles       []string     `json:"target_roles"`
	TargetCompanies   CompanyTiers `json:"target_companies"`
	WillingToRelocate bool         `json:"willing_to_relocate"`
}

type Documents struct {
	Resume      string `json:"resume"`
	CoverLetter string `json:"cover_letter,omitempty"`
	Transcripts string `json:"transcripts,omitempty"`
}

// Profile is the candidate's static data. It is loaded once per run and
// never mutated afterwards.
type Profile struct {
	Personal    Personal    `json:"personal"`
	Education   []Education `json:"education"`
	Skills      Skills      `json:"skills"`
	Experience  []string    `json:"experience"`
	Preferences Preferences `json:"preferences"`
	Documents   Documents   `json:"documents"`
}

func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &p, nil
}

// FirstEducation returns the primary education entry, or a zero value when
// the profile has none. Form fields only ever ask about the latest entry.
func (p *Profile) FirstEducation() Education {
	if len(p.Education) == 0 {
		return Education{}
	}
	return p.Education[0]
}

// IsDreamCompany reports whether the company sits in the top tier of the
// candidate's target list. Comparison is case-insensitive.
func (p *Profile) IsDreamCompany(company string) bool {
	company = strings.TrimSpace(strings.ToLower(company))
	for _, c := range p.Preferences.TargetCompanies.Dream {
		if strings.ToLower(c) == company {
			return true
		}
	}
	return false
}

// Highlights returns up to n short profile facts for prompt context.
func (p *Profile) Highlights(n int) []string {
	var out []string

	edu := p.FirstEducation()
	if edu.Degree != "" {
		out = append(out, fmt.Sprintf("%s in %s at %s (graduating %s)", edu.Degree, edu.Major, edu.School, edu.GraduationYear))
	}
	if len(p.Skills.Languages) > 0 {
		limit := len(p.Skills.Languages)
		if limit > 3 {
			limit = 3
		}
		out = append(out, "Strong skills in "+strings.Join(p.Skills.Languages[:limit], ", "))
	}
	out = append(out, p.Experience...)

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
