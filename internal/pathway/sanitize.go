package pathway

import (
	"regexp"
	"strings"
)

// entityReplacer maps the HTML entities seen in reaction and activity names
// to plain text. The table is closed; extend it only for entities actually
// found in the knowledge base.
var entityReplacer = strings.NewReplacer(
	"&mdash;", "-",
	"&ndash;", "-",
	"&prime;", "'",
	"&alpha;", "alpha",
	"&beta;", "beta",
	"&gamma;", "gamma",
	"&delta;", "delta",
	"&epsilon;", "epsilon",
	"&chi;", "chi",
	"&iota;", "iota",
	"&lambda;", "lambda",
	"&mu;", "mu",
	"&phi;", "phi",
	"&zeta;", "zeta",
	"&omega;", "omega",
)

var tagPattern = regexp.MustCompile(`<.*?>`)

// SanitizeName substitutes known HTML entities and removes <...> markup.
func SanitizeName(s string) string {
	return StripTags(entityReplacer.Replace(s))
}

// StripTags removes <...> markup.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// CleanPathwayName strips |bar| quoting and markup from a pathway name.
func CleanPathwayName(s string) string {
	return StripTags(strings.ReplaceAll(s, "|", ""))
}
