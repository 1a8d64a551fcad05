package resolve

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-openclaw-apply/internal/profile"
	"go-openclaw-apply/internal/scanner"
)

// normalizeLabel strips diacritics and case before any pattern matching,
// so "Prénom" and "prenom" classify the same way.
func normalizeLabel(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(strings.TrimSpace(result))
}

type directRule struct {
	re  *regexp.Regexp
	get func(p *profile.Profile) string
}

// directRules answer a field straight from the profile, no generation.
// First match wins, order matters: "full name" must hit before "name".
var directRules = []directRule{
	{regexp.MustCompile(`first.?name|given.?name`), func(p *profile.Profile) string { return p.Personal.FirstName }},
	{regexp.MustCompile(`last.?name|family.?name|surname`), func(p *profile.Profile) string { return p.Personal.LastName }},
	{regexp.MustCompile(`full.?name|your.?name`), func(p *profile.Profile) string { return p.Personal.FullName }},
	{regexp.MustCompile(`e.?mail`), func(p *profile.Profile) string { return p.Personal.Email }},
	{regexp.MustCompile(`\b(phone|mobile|cell)\b`), func(p *profile.Profile) string { return p.Personal.Phone }},
	{regexp.MustCompile(`linkedin`), func(p *profile.Profile) string { return p.Personal.LinkedIn }},
	{regexp.MustCompile(`github`), func(p *profile.Profile) string { return p.Personal.GitHub }},
	{regexp.MustCompile(`portfolio|website|personal.?site`), func(p *profile.Profile) string { return p.Personal.Portfolio }},
	{regexp.MustCompile(`\bcity\b`), func(p *profile.Profile) string { return p.Personal.Address.City }},
	//word-bounded so "United States" and "please state..." stay clear
	{regexp.MustCompile(`\bstate\b|\bprovince\b`), func(p *profile.Profile) string { return p.Personal.Address.State }},
	{regexp.MustCompile(`\bzip\b|postal`), func(p *profile.Profile) string { return p.Personal.Address.Zip }},
	{regexp.MustCompile(`\bcountry\b`), func(p *profile.Profile) string { return p.Personal.Address.Country }},
	{regexp.MustCompile(`citizen`), func(p *profile.Profile) string { return p.Personal.Authorization.Citizenship }},
	{regexp.MustCompile(`school|university|college`), func(p *profile.Profile) string { return p.FirstEducation().School }},
	{regexp.MustCompile(`degree|education.?level`), func(p *profile.Profile) string { return p.FirstEducation().Degree }},
	{regexp.MustCompile(`major|field.?of.?study`), func(p *profile.Profile) string { return p.FirstEducation().Major }},
	{regexp.MustCompile(`\bgpa\b|grade.?point`), func(p *profile.Profile) string { return p.FirstEducation().GPA }},
	{regexp.MustCompile(`graduation.?(year|date)|expected.?graduation`), func(p *profile.Profile) string { return p.FirstEducation().GraduationYear }},
}

type templatedRule struct {
	re  *regexp.Regexp
	get func(p *profile.Profile) string
}

// templatedRules cover yes/no style questions answerable by a fixed rule.
var templatedRules = []templatedRule{
	{regexp.MustCompile(`work.?authorization|eligible.?to.?work|legally.?authorized`), func(p *profile.Profile) string {
		return yesNo(p.Personal.Authorization.USWorkAuthorized)
	}},
	{regexp.MustCompile(`require.?sponsorship|need.?visa|visa.?sponsorship|sponsorship`), func(p *profile.Profile) string {
		return yesNo(p.Personal.Authorization.RequiresSponsorship)
	}},
	{regexp.MustCompile(`relocat`), func(p *profile.Profile) string {
		return yesNo(p.Preferences.WillingToRelocate)
	}},
	{regexp.MustCompile(`(at.?least|over|18).*(18|age)|18.?(years|\+)`), func(p *profile.Profile) string {
		return "Yes"
	}},
	{regexp.MustCompile(`agree|consent|acknowledge|certify|confirm`), func(p *profile.Profile) string {
		return "Yes"
	}},
}

// openEndedPatterns flag free-text questions whose answer depends on the
// specific company and role.
var openEndedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`why.*interested.*position`),
	regexp.MustCompile(`why.*company`),
	regexp.MustCompile(`why.*join`),
	regexp.MustCompile(`why.*work.*(at|for|here)`),
	regexp.MustCompile(`tell.*about.*yourself`),
	regexp.MustCompile(`describe.*experience`),
	regexp.MustCompile(`explain.*project`),
	regexp.MustCompile(`challenging.*situation`),
	regexp.MustCompile(`biggest.*achievement`),
	regexp.MustCompile(`where.*see.*yourself`),
	regexp.MustCompile(`diversity.*inclusion`),
	regexp.MustCompile(`leadership.*example`),
	regexp.MustCompile(`teamwork.*example`),
	regexp.MustCompile(`technical.*challenge`),
	regexp.MustCompile(`salary.*expectation`),
	regexp.MustCompile(`additional.*information`),
	regexp.MustCompile(`cover.?letter`),
}

func isOpenEnded(normLabel string, fieldType scanner.InputType) bool {
	if fieldType == scanner.InputTextarea {
		return true
	}
	for _, re := range openEndedPatterns {
		if re.MatchString(normLabel) {
			return true
		}
	}
	return false
}

func lookupDirect(normLabel string, p *profile.Profile) (string, bool) {
	for _, rule := range directRules {
		if rule.re.MatchString(normLabel) {
			if v := rule.get(p); v != "" {
				return v, true
			}
			return "", false
		}
	}
	return "", false
}

func lookupTemplated(normLabel string, p *profile.Profile) (string, bool) {
	for _, rule := range templatedRules {
		if rule.re.MatchString(normLabel) {
			return rule.get(p), true
		}
	}
	return "", false
}

func lookupDocument(normLabel string, p *profile.Profile) (string, bool) {
	switch {
	case strings.Contains(normLabel, "resume") || strings.Contains(normLabel, "cv"):
		return p.Documents.Resume, p.Documents.Resume != ""
	case strings.Contains(normLabel, "cover"):
		return p.Documents.CoverLetter, p.Documents.CoverLetter != ""
	case strings.Contains(normLabel, "transcript"):
		return p.Documents.Transcripts, p.Documents.Transcripts != ""
	default:
		return "", false
	}
}

// matchOption snaps a profile value onto one of the field's offered
// options: exact text or value first, then substring, then yes/no aliases.
func matchOption(value string, options []scanner.Option) string {
	if len(options) == 0 {
		return value
	}
	lower := strings.ToLower(value)

	for _, opt := range options {
		if strings.ToLower(opt.Text) == lower || strings.ToLower(opt.Value) == lower {
			return opt.Text
		}
	}
	for _, opt := range options {
		text := strings.ToLower(opt.Text)
		if strings.Contains(text, lower) || strings.Contains(lower, text) {
			return opt.Text
		}
	}

	yesRe := regexp.MustCompile(`(?i)\b(yes|true)\b`)
	noRe := regexp.MustCompile(`(?i)\b(no|false)\b`)
	switch lower {
	case "yes", "true":
		for _, opt := range options {
			if yesRe.MatchString(opt.Text) {
				return opt.Text
			}
		}
	case "no", "false":
		for _, opt := range options {
			if noRe.MatchString(opt.Text) {
				return opt.Text
			}
		}
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
