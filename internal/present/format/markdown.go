package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/kennel/internal/dogs"
)

// DogPageURL links to the rescue's public page for a dog.
func DogPageURL(id string) string {
	return "https://homeatlastdogrescue.com/dog/" + id
}

// DogMarkdown renders a dog card as markdown.
func DogMarkdown(d dogs.Dog, now time.Time) string {
	status := "Available"
	if !d.IsAvailable {
		status = "No longer listed"
	}
	var marks []string
	if d.IsFavorite {
		marks = append(marks, "★ favorite")
	}
	if d.IsNew {
		marks = append(marks, "new")
	}
	line := ""
	if len(marks) > 0 {
		line = "\n> " + strings.Join(marks, " · ") + "\n"
	}
	return fmt.Sprintf(`# %s
%s
| | |
|---|---|
| **Breed** | %s |
| **Age** | %s |
| **Gender** | %s |
| **Weight** | %s |
| **Intake** | %s |
| **Status** | %s |

[Photo](%s) · [Adoption page](%s)
`, d.Name, line, mdCell(d.Breed()), d.Age, d.Gender, d.Weight, Intake(d, now), status, d.Photo, DogPageURL(d.ID))
}

// DogsMarkdown renders a compact markdown table of dogs.
func DogsMarkdown(list []dogs.Dog, now time.Time) string {
	var b strings.Builder
	b.WriteString("| Name | Breed | Age | Gender | Weight | Intake | |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, d := range list {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			mdCell(d.Name), mdCell(d.Breed()), d.Age, d.Gender, d.Weight, Intake(d, now), Flags(d))
	}
	return b.String()
}

func mdCell(s string) string { return strings.ReplaceAll(s, "|", `\|`) }

func renderMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}

// WritePrettyDog renders a dog card with glamour.
func WritePrettyDog(w io.Writer, d dogs.Dog, now time.Time) error {
	return renderMarkdown(w, DogMarkdown(d, now))
}

// WritePrettyDogs renders the dog list as a glamour table.
func WritePrettyDogs(w io.Writer, list []dogs.Dog, now time.Time) error {
	return renderMarkdown(w, DogsMarkdown(list, now))
}
