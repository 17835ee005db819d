package blog

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/util"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var articleTmpl = template.Must(template.ParseFS(templateFS, "templates/article.html.tmpl"))

// backgroundAlpha is appended to a #RRGGBB color for the ~12% opacity chip background.
const backgroundAlpha = "1f"

// ContentInput is everything the article template renders.
type ContentInput struct {
	Movie      *domain.Movie
	Tags       []*domain.Tag
	Categories []*domain.Category
	Note       *domain.UserNote
	UserName   string
	FullName   string
	Links      ExternalLinks
}

type chip struct {
	Name       string
	Slug       string
	Color      string
	Background string
}

type articleView struct {
	Title      string
	Year       string
	Director   string
	Runtime    string
	Genre      string
	FullName   string
	UserName   string
	PosterURL  string
	Overview   string
	Tags       []chip
	Categories []chip
	Note       string
	Links      []Link
}

// AssembleContent renders the post article. Optional sections (poster,
// overview, tags, categories, review) are left out entirely when their data
// is absent; the external-links section and disclaimer are always present.
func AssembleContent(in ContentInput) (string, error) {
	m := in.Movie
	view := articleView{
		Title:     m.Title,
		Year:      m.Year(),
		Director:  m.Director,
		Runtime:   formatRuntime(m.RuntimeMinutes),
		Genre:     m.Genre,
		FullName:  in.FullName,
		UserName:  in.UserName,
		PosterURL: m.PosterURL,
		Overview:  m.Overview,
		Note:      in.Note.Text(),
		Links:     in.Links.Entries(),
	}

	for _, t := range in.Tags {
		view.Tags = append(view.Tags, newChip(t.Name, t.Color))
	}
	for _, c := range in.Categories {
		view.Categories = append(view.Categories, newChip(c.Name, c.Color))
	}

	var buf bytes.Buffer
	if err := articleTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render article for movie %s: %w", m.ID, err)
	}
	return buf.String(), nil
}

func newChip(name, color string) chip {
	if !domain.ValidColor(color) {
		color = domain.DefaultColor
	}
	return chip{
		Name:       name,
		Slug:       util.Slugify(name),
		Color:      color,
		Background: color + backgroundAlpha,
	}
}
