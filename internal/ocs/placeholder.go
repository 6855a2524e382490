package ocs

import (
	"strings"
)

// Tokens replaced by Substitute.
const (
	TokenMe                = "%me%"
	TokenUsername          = "%username%"
	TokenLowercaseUsername = "%lowercase_username%"
	TokenUppercaseUsername = "%uppercase_username%"
	TokenBaseURL           = "%base_url%"
	TokenBasePath          = "%base_path%"
)

// Substitute replaces the user tokens in template with values derived from
// subject. Unknown tokens are left as they are.
func Substitute(template, subject string) string {
	if !strings.Contains(template, "%") {
		return template
	}
	return userReplacer(subject).Replace(template)
}

func userReplacer(subject string) *strings.Replacer {
	return strings.NewReplacer(
		TokenMe, subject,
		TokenUsername, subject,
		TokenLowercaseUsername, strings.ToLower(subject),
		TokenUppercaseUsername, strings.ToUpper(subject),
	)
}

// Substituter extends Substitute with tokens tied to the server under test.
type Substituter struct {
	BaseURL string
}

func (s Substituter) Substitute(template, subject string) string {
	if !strings.Contains(template, "%") {
		return template
	}
	out := Substitute(template, subject)
	return strings.NewReplacer(
		TokenBaseURL, strings.TrimRight(s.BaseURL, "/"),
		TokenBasePath, s.basePath(),
	).Replace(out)
}

func (s Substituter) basePath() string {
	rest := s.BaseURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	i := strings.Index(rest, "/")
	if i < 0 {
		return ""
	}
	return strings.TrimRight(rest[i:], "/")
}
