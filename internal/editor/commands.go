package editor

import (
	"coursemarket/internal/models"
)

// Command is one edit of a Draft's chapter tree.
type Command interface {
	apply(d *Draft)
}

// AddChapter appends a chapter with a fresh ID, ordered after every existing chapter.
type AddChapter struct {
	Title string
}

func (c AddChapter) apply(d *Draft) {
	order := 1
	for _, ch := range d.Chapters {
		if ch.Order >= order {
			order = ch.Order + 1
		}
	}

	d.Chapters = append(d.Chapters, &models.Chapter{
		ID:       d.id(),
		Order:    order,
		Title:    c.Title,
		Lectures: []*models.Lecture{},
	})
}

// RemoveChapter removes a chapter. Unknown IDs are ignored.
type RemoveChapter struct {
	ChapterID string
}

func (c RemoveChapter) apply(d *Draft) {
	kept := make([]*models.Chapter, 0, len(d.Chapters))
	for _, ch := range d.Chapters {
		if ch.ID != c.ChapterID {
			kept = append(kept, ch)
		}
	}
	d.Chapters = kept
}

// ToggleChapter flips whether a chapter is collapsed in the editor.
type ToggleChapter struct {
	ChapterID string
}

func (c ToggleChapter) apply(d *Draft) {
	if ch := d.Chapter(c.ChapterID); ch != nil {
		ch.Collapsed = !ch.Collapsed
	}
}

// LectureDetails are the fields of a lecture entered by the author.
type LectureDetails struct {
	Title         string `yaml:"title"`
	Duration      int    `yaml:"duration"`
	URL           string `yaml:"url"`
	IsPreviewFree bool   `yaml:"previewFree"`
}

// AddLecture appends a lecture with a fresh ID to a chapter, ordered after the chapter's lectures. Unknown
// chapters are ignored.
type AddLecture struct {
	ChapterID string
	Details   LectureDetails
}

func (c AddLecture) apply(d *Draft) {
	ch := d.Chapter(c.ChapterID)
	if ch == nil {
		return
	}

	order := 1
	for _, l := range ch.Lectures {
		if l.Order >= order {
			order = l.Order + 1
		}
	}

	ch.Lectures = append(ch.Lectures, &models.Lecture{
		ID:            d.id(),
		Title:         c.Details.Title,
		Duration:      c.Details.Duration,
		URL:           c.Details.URL,
		IsPreviewFree: c.Details.IsPreviewFree,
		Order:         order,
	})
}

// RemoveLecture removes the lecture at Index within a chapter. Out of range indexes are ignored.
type RemoveLecture struct {
	ChapterID string
	Index     int
}

func (c RemoveLecture) apply(d *Draft) {
	ch := d.Chapter(c.ChapterID)
	if ch == nil || c.Index < 0 || c.Index >= len(ch.Lectures) {
		return
	}

	lectures := make([]*models.Lecture, 0, len(ch.Lectures)-1)
	lectures = append(lectures, ch.Lectures[:c.Index]...)
	ch.Lectures = append(lectures, ch.Lectures[c.Index+1:]...)
}
