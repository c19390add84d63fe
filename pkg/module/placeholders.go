package module

import (
	"strings"
	"unicode/utf8"
)

// Placeholder names understood by the module template.
const (
	KeyQualName     = "qualname"
	KeyUnderline    = "underline"
	KeyMsg          = "msg"
	KeyOriginalFile = "original_file"
	KeyCommitID     = "commit_id"
	KeyContent      = "content"
)

// RequiredPlaceholders lists the keys every render must supply, in header
// order.
var RequiredPlaceholders = []string{
	KeyQualName,
	KeyUnderline,
	KeyMsg,
	KeyOriginalFile,
	KeyCommitID,
	KeyContent,
}

// Placeholders is the typed form of the substitution mapping.
type Placeholders struct {
	QualName     string
	Underline    string
	Msg          string
	OriginalFile string
	CommitID     string
	Content      string
}

// NewPlaceholders fills Underline from qualname using the conventional "~".
func NewPlaceholders(qualname, msg, originalFile, commitID, content string) Placeholders {
	return Placeholders{
		QualName:     qualname,
		Underline:    Underline(qualname, "~"),
		Msg:          msg,
		OriginalFile: originalFile,
		CommitID:     commitID,
		Content:      content,
	}
}

// Values converts p into the mapping consumed by Renderer.Render.
func (p Placeholders) Values() map[string]string {
	return map[string]string{
		KeyQualName:     p.QualName,
		KeyUnderline:    p.Underline,
		KeyMsg:          p.Msg,
		KeyOriginalFile: p.OriginalFile,
		KeyCommitID:     p.CommitID,
		KeyContent:      p.Content,
	}
}

// Underline repeats char once per rune of text.
func Underline(text, char string) string {
	if char == "" {
		char = "~"
	}
	return strings.Repeat(char, utf8.RuneCountInString(text))
}

// SkippedMessage builds the msg block listing functions left out of a
// module. It returns "" when nothing was skipped.
func SkippedMessage(skipped []string) string {
	if len(skipped) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n    Skipped functions\n")
	b.WriteString("    -----------------\n")
	for _, name := range skipped {
		b.WriteString("    - ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String()
}
