package posting

import (
	"net/url"
	"strings"
)

// ATS identifies the applicant-tracking system hosting an application form.
// Advisory only: unknown never fails a pipeline run.
type ATS string

const (
	ATSGreenhouse      ATS = "greenhouse"
	ATSLever           ATS = "lever"
	ATSWorkday         ATS = "workday"
	ATSSmartRecruiters ATS = "smartrecruiters"
	ATSICIMS           ATS = "icims"
	ATSJobvite         ATS = "jobvite"
	ATSUnknown         ATS = "unknown"
)

// atsHosts maps host suffixes to their ATS. Extend here when a new
// platform shows up in extracted application links.
var atsHosts = map[string]ATS{
	"greenhouse.io":       ATSGreenhouse,
	"lever.co":            ATSLever,
	"workday.com":         ATSWorkday,
	"myworkdayjobs.com":   ATSWorkday,
	"smartrecruiters.com": ATSSmartRecruiters,
	"icims.com":           ATSICIMS,
	"jobvite.com":         ATSJobvite,
}

// ClassifyATS inspects the external application URL's host. Unmatched or
// unparsable hosts yield ATSUnknown.
func ClassifyATS(rawURL string) ATS {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ATSUnknown
	}

	host := strings.ToLower(u.Host)
	for suffix, ats := range atsHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return ats
		}
	}
	return ATSUnknown
}
