package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/sqlgen.txt
	sqlGeneratorRaw string

	//go:embed template/info.txt
	infoRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	SQLGenerator string
	Info         string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		SQLGenerator: strings.TrimSpace(sqlGeneratorRaw),
		Info:         strings.TrimSpace(infoRaw),
	}
}
