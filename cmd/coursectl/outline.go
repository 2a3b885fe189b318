package main

import (
	"fmt"
	"io"

	"coursemarket/internal/editor"

	"gopkg.in/yaml.v3"
)

// Outline is the YAML description of a course to publish.
type Outline struct {
	Title        string           `yaml:"title"`
	Description  string           `yaml:"description"`
	Price        float64          `yaml:"price"`
	Discount     float64          `yaml:"discount"`
	ThumbnailURL string           `yaml:"thumbnail"`
	NotesURL     string           `yaml:"notes"`
	Chapters     []OutlineChapter `yaml:"chapters"`
}

type OutlineChapter struct {
	Title    string                  `yaml:"title"`
	Lectures []editor.LectureDetails `yaml:"lectures"`
}

func readOutline(r io.Reader) (*Outline, error) {
	var o Outline
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		return nil, fmt.Errorf("error reading outline: %w", err)
	}
	return &o, nil
}

// Draft builds an editor draft from the outline, one command per chapter and lecture.
func (o *Outline) Draft() *editor.Draft {
	d := editor.NewDraft()
	d.Title = o.Title
	d.Description = o.Description
	d.Price = o.Price
	d.Discount = o.Discount
	d.ThumbnailURL = o.ThumbnailURL
	d.NotesURL = o.NotesURL

	for _, ch := range o.Chapters {
		d.Apply(editor.AddChapter{Title: ch.Title})
		chapterID := d.Chapters[len(d.Chapters)-1].ID
		for _, l := range ch.Lectures {
			d.Apply(editor.AddLecture{ChapterID: chapterID, Details: l})
		}
	}
	return d
}
