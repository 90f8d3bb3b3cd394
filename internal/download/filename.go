package download

import "strings"

const maxTitleLength = 100

var filenameSanitizer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"/", "_",
	`\`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// CleanTitle turns a video title into a safe filename stem. Characters
// illegal on common filesystems become underscores, and long titles are
// truncated with an ellipsis marker.
func CleanTitle(title string) string {
	cleaned := filenameSanitizer.Replace(title)
	runes := []rune(cleaned)
	if len(runes) > maxTitleLength {
		return string(runes[:maxTitleLength-3]) + "..."
	}
	return cleaned
}
