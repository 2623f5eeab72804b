package feed

import (
	"regexp"
	"strings"
)

// CaseInfo is the case name and docket number parsed from a recording title.
type CaseInfo struct {
	CaseName string
	// Docket is empty for recordings that are not argument sessions
	// (bar events, announcements).
	Docket string
}

// docketRegex matches titles of the form "<case name>, SJC-NNNNN".
var docketRegex = regexp.MustCompile(`^(.+),\s*(SJC-\d+)$`)

// ParseCaseInfo extracts the case name and docket number from a video title.
//
//	"Commonwealth v. Emilio Delarosa, SJC-13444"
//	    -> {CaseName: "Commonwealth v. Emilio Delarosa", Docket: "SJC-13444"}
//	"Mass Bar Association Presents Annual State of the Judiciary"
//	    -> {CaseName: <whole title>, Docket: ""}
func ParseCaseInfo(title string) CaseInfo {
	if m := docketRegex.FindStringSubmatch(title); m != nil {
		return CaseInfo{
			CaseName: strings.TrimSpace(m[1]),
			Docket:   m[2],
		}
	}
	return CaseInfo{CaseName: title}
}
