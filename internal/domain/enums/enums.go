package enums

import "strings"

type IssueType string

const (
	IssueTypeCloudSecurity IssueType = "Cloud Security"
	IssueTypeRedTeam       IssueType = "RedTeam Assessment"
	IssueTypeVAPT          IssueType = "VAPT"
)

var issueTypeSlugs = map[string]IssueType{
	"cloud-security":     IssueTypeCloudSecurity,
	"redteam-assessment": IssueTypeRedTeam,
	"vapt":               IssueTypeVAPT,
}

func (t IssueType) Valid() bool {
	switch t {
	case IssueTypeCloudSecurity, IssueTypeRedTeam, IssueTypeVAPT:
		return true
	}
	return false
}

// IssueTypeFromSlug maps a URL filter slug such as "cloud-security" to its
// issue type. Unknown slugs report false.
func IssueTypeFromSlug(slug string) (IssueType, bool) {
	t, ok := issueTypeSlugs[strings.ToLower(strings.TrimSpace(slug))]
	return t, ok
}

const DefaultIssueStatus = "OPEN"

type Gender string

const (
	GenderMale           Gender = "Male"
	GenderFemale         Gender = "Female"
	GenderOther          Gender = "Other"
	GenderPreferNotToSay Gender = "Prefer not to say"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}
