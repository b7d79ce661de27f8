package search

import "strings"

// SanitizeQuery strips Markdown code fences and leading "sql" labels that
// generative backends wrap around queries. A generated query is not trusted
// as executable until it has passed through here.
func SanitizeQuery(raw string) string {
	q := strings.TrimSpace(raw)
	if strings.HasPrefix(q, "```") {
		q = strings.Trim(q, "`")
		if strings.HasPrefix(strings.ToLower(q), "sql") {
			q = q[3:]
		}
		q = strings.TrimSpace(q)
	}

	lower := strings.ToLower(q)
	switch {
	case strings.HasPrefix(lower, "sql\n"):
		q = strings.SplitN(q, "\n", 2)[1]
	case strings.HasPrefix(lower, "sql "):
		q = q[4:]
	}
	return strings.TrimSpace(q)
}
