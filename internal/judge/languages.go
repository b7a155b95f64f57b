package judge

// DefaultLanguageID is used when a task's language has no explicit mapping.
const DefaultLanguageID = 74 // TypeScript

var languageIDs = map[string]int{
	"javascript": 63,
	"typescript": 74,
	"python":     71,
	"go":         95,
	"java":       62,
	"c":          50,
	"cpp":        54,
}

// LanguageID maps a task language name to the execution service's id.
func LanguageID(language string) int {
	if id, ok := languageIDs[language]; ok {
		return id
	}
	return DefaultLanguageID
}
