package recipe2pdf

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-recipe2pdf/internal/dateutil"
	"github.com/alnah/go-recipe2pdf/internal/layout"
)

// Section names, as reported in RenderResult.Sections.
const (
	SectionTitle            = "title"
	SectionImage            = "image"
	SectionCreated          = "created"
	SectionSource           = "source"
	SectionServings         = "servings"
	SectionRating           = "rating"
	SectionTimes            = "times"
	SectionCategories       = "categories"
	SectionNotes            = "notes"
	SectionIngredients      = "ingredients"
	SectionInstructions     = "instructions"
	SectionPreparationSteps = "preparation steps"
	SectionNote             = "note"
	SectionNutritionalInfo  = "nutritional info"
)

// untitled replaces an empty recipe name in the document title.
const untitled = "Untitled Recipe"

// errSkipSection tells the render loop a section chose to draw nothing.
var errSkipSection = errors.New("section skipped")

// section is one entry of the document layout.
type section struct {
	name       string
	include    func(*renderState) bool
	render     func(*renderState) error
	keepCursor bool // no gap afterwards; the section restores the cursor itself
}

// sections is the document layout, drawn top to bottom in this order.
var sections = []section{
	{name: SectionTitle, include: always, render: renderTitle},
	{name: SectionImage, include: hasPhoto, render: renderImage, keepCursor: true},
	{name: SectionCreated, include: always, render: renderCreated},
	{
		name: SectionSource,
		include: func(s *renderState) bool {
			return hasText(s.recipe.SourceName) || hasText(s.recipe.SourceURL)
		},
		render: renderSource,
	},
	{
		name:    SectionServings,
		include: func(s *renderState) bool { return hasText(string(s.recipe.Servings)) },
		render:  renderServings,
	},
	{name: SectionRating, include: always, render: renderRating},
	{
		name: SectionTimes,
		include: func(s *renderState) bool {
			return hasValue(s.recipe.PrepTime) || hasValue(s.recipe.CookTime)
		},
		render: renderTimes,
	},
	{
		name:    SectionCategories,
		include: func(s *renderState) bool { return len(s.recipe.Categories) > 0 },
		render:  renderCategories,
	},
	{
		name:    SectionNotes,
		include: func(s *renderState) bool { return hasText(s.recipe.Notes) },
		render:  func(s *renderState) error { return renderNotes(s, s.recipe.Notes) },
	},
	{name: SectionIngredients, include: always, render: renderIngredients},
	{
		name:    SectionInstructions,
		include: func(s *renderState) bool { return hasText(s.recipe.Instructions) },
		render:  renderInstructions,
	},
	{
		name:    SectionPreparationSteps,
		include: func(s *renderState) bool { return len(s.recipe.PreparationSteps) > 0 },
		render:  renderPreparationSteps,
	},
	{
		name: SectionNote,
		include: func(s *renderState) bool {
			return hasText(s.recipe.Note) || hasText(s.recipe.Notes)
		},
		render: func(s *renderState) error {
			if hasText(s.recipe.Note) {
				return renderNotes(s, s.recipe.Note)
			}
			return renderNotes(s, s.recipe.Notes)
		},
	},
	{
		name:    SectionNutritionalInfo,
		include: func(s *renderState) bool { return hasText(s.recipe.NutritionalInfo) },
		render:  renderNutritionalInfo,
	},
}

func always(*renderState) bool { return true }

func hasPhoto(s *renderState) bool {
	return s.r.images != nil && s.recipe.PhotoID() != ""
}

func renderTitle(s *renderState) error {
	name := s.recipe.Name
	if !hasText(name) {
		name = untitled
	}
	return s.lc.With(s.base.Sized(titleSize).Bolded(), func() error {
		s.lc.Block(name, layout.AlignCenter)
		return nil
	})
}

// renderImage floats the photo against the right margin at the current
// cursor and leaves the cursor where it was.
func renderImage(s *renderState) error {
	photoID := s.recipe.PhotoID()
	img, err := s.r.images.Resolve(s.ctx, photoID)
	if err != nil {
		s.result.ImageErr = err
		s.r.logger.WithFields(logrus.Fields{
			"recipe": s.recipe.Name,
			"photo":  photoID,
		}).WithError(err).Warn("Skipping recipe photo")
		return errSkipSection
	}

	y := s.lc.Y()
	s.lc.FloatRight(img.Image, y, img.DrawW, img.DrawH)
	return nil
}

func renderCreated(s *renderState) error {
	created := dateutil.FormatCreated(s.recipe.CreationTimestamp, s.r.location)
	value := s.base
	if !created.Known() {
		value = value.Italicized()
	}
	s.lc.Line(
		layout.Run{Text: "Created: ", Style: s.base.Bolded()},
		layout.Run{Text: created.Display, Style: value},
	)
	return nil
}

func renderSource(s *renderState) error {
	name, url := s.recipe.SourceName, s.recipe.SourceURL
	label := layout.Run{Text: "Source: ", Style: s.base.Bolded()}

	switch {
	case hasText(name) && hasText(url):
		s.lc.Line(label, layout.Run{Text: name, Style: s.base.Linked(url)})
	case hasText(name):
		s.lc.Line(label, layout.Run{Text: name, Style: s.base})
	default:
		s.lc.Line(
			layout.Run{Text: "Source URL: ", Style: s.base.Bolded()},
			layout.Run{Text: url, Style: s.base.Linked(url)},
		)
	}
	return nil
}

func renderServings(s *renderState) error {
	s.labeled("Servings: ", string(s.recipe.Servings))
	return nil
}

func renderRating(s *renderState) error {
	value := "No rating available"
	if hasValue(s.recipe.Rating) {
		value = FormatNumber(*s.recipe.Rating) + " stars"
	}
	s.labeled("Rating: ", value)
	return nil
}

func renderTimes(s *renderState) error {
	var runs []layout.Run
	add := func(label string, seconds *float64) {
		if !hasValue(seconds) {
			return
		}
		if len(runs) > 0 {
			runs = append(runs, layout.Run{Text: " | ", Style: s.base})
		}
		runs = append(runs,
			layout.Run{Text: label, Style: s.base.Bolded()},
			layout.Run{Text: FormatNumber(Minutes(*seconds)) + " min", Style: s.base},
		)
	}
	add("Prep Time: ", s.recipe.PrepTime)
	add("Cook Time: ", s.recipe.CookTime)
	s.lc.Line(runs...)
	return nil
}

func renderCategories(s *renderState) error {
	s.labeled("Categories: ", strings.Join(s.recipe.Categories, ", "))
	return nil
}

// renderNotes draws a "Notes:" block. The early and late notes blocks both
// use it, so a recipe with only "notes" shows them twice.
func renderNotes(s *renderState, body string) error {
	s.heading("Notes:")
	if s.r.notesMarkdown {
		for _, runs := range s.r.notes.Lines(body, s.base) {
			s.lc.Line(runs...)
		}
		return nil
	}
	s.lc.Paragraph(body)
	return nil
}

func renderIngredients(s *renderState) error {
	s.heading("Ingredients")
	for _, ing := range s.recipe.Ingredients {
		s.lc.Text(ing.RawIngredient)
	}
	return nil
}

func renderInstructions(s *renderState) error {
	s.heading("Instructions")
	n := 0
	for _, line := range strings.Split(s.recipe.Instructions, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n++
		s.lc.Text(strconv.Itoa(n) + ". " + line)
	}
	return nil
}

// renderPreparationSteps numbers steps from 1. A step starting with "#" is a
// bold sub-heading and does not advance the numbering.
func renderPreparationSteps(s *renderState) error {
	s.heading("Preparation Steps")
	n := 0
	for _, step := range s.recipe.PreparationSteps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		if strings.HasPrefix(step, "#") {
			s.lc.Line(layout.Run{
				Text:  strings.TrimSpace(strings.TrimLeft(step, "#")),
				Style: s.base.Bolded(),
			})
		} else {
			n++
			s.lc.Line(
				layout.Run{Text: strconv.Itoa(n) + ". ", Style: s.base.Bolded()},
				layout.Run{Text: step, Style: s.base},
			)
		}
		s.lc.HalfGap()
	}
	return nil
}

func renderNutritionalInfo(s *renderState) error {
	s.heading("Nutritional Info")
	s.lc.Paragraph(s.recipe.NutritionalInfo)
	return nil
}

// heading draws a bold section heading followed by half a gap.
func (s *renderState) heading(text string) {
	s.lc.Line(layout.Run{Text: text, Style: s.base.Sized(headingSize).Bolded()})
	s.lc.HalfGap()
}

// labeled draws "<label><value>" with a bold label.
func (s *renderState) labeled(label, value string) {
	s.lc.Line(
		layout.Run{Text: label, Style: s.base.Bolded()},
		layout.Run{Text: value, Style: s.base},
	)
}
