package persona

import (
	"fmt"
	"io"
	"strings"
)

// Line returns "<emoji> <Title>: <value>", without the emoji when the key has
// none.
func Line(emoji, title, value string) string {
	if emoji == "" {
		return fmt.Sprintf("%s: %s", title, value)
	}
	return fmt.Sprintf("%s %s: %s", emoji, title, value)
}

// FormatText writes a plain-text rendition of r, the same content the web
// report shows.
func FormatText(w io.Writer, r *Result) error {
	var b strings.Builder

	switch {
	case r.DecodeError != "":
		fmt.Fprintf(&b, "Could not decode the analysis: %s\n\n%s\n", r.DecodeError, r.Raw)
	case r.ModelError != "":
		fmt.Fprintf(&b, "%s\n", Line(Emoji(FieldError), "Analysis Error", r.ModelError))
	default:
		for _, e := range r.Entries {
			if !e.IsList {
				b.WriteString(Line(e.Emoji, e.Title, e.Value))
				b.WriteByte('\n')
				continue
			}

			fmt.Fprintf(&b, "%s\n", strings.TrimSpace(e.Emoji+" "+e.Title))
			for i, item := range e.Items {
				if !item.isObject {
					fmt.Fprintf(&b, "  - %s\n", item.Value)
					continue
				}
				fmt.Fprintf(&b, "  Person %d\n", i+1)
				for _, a := range item.Attributes {
					fmt.Fprintf(&b, "    - %s\n", Line(a.Emoji, a.Title, a.Value))
				}
			}
		}
	}

	if len(r.Issues) > 0 {
		b.WriteString("\nIssues:\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(&b, "  - %s\n", issue)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
