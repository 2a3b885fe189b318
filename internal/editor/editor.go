package editor

import (
	"context"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	"github.com/google/uuid"
)

// Submitter persists a finished course. client.Client implements it.
type Submitter interface {
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
}

// Draft is a course being authored: its details and an ordered tree of chapters and lectures. It is not
// persisted until Submit.
type Draft struct {
	Title        string
	Description  string
	Price        float64
	Discount     float64
	ThumbnailURL string
	NotesURL     string
	Chapters     []*models.Chapter

	newID func() string
}

func NewDraft() *Draft {
	return &Draft{Chapters: []*models.Chapter{}, newID: uuid.NewString}
}

// Apply runs cmds in order.
func (d *Draft) Apply(cmds ...Command) {
	for _, cmd := range cmds {
		cmd.apply(d)
	}
}

// id returns a fresh chapter or lecture ID. The zero Draft uses random UUIDs.
func (d *Draft) id() string {
	if d.newID == nil {
		return uuid.NewString()
	}
	return d.newID()
}

// Chapter returns the chapter with the given ID, or nil.
func (d *Draft) Chapter(id string) *models.Chapter {
	for _, ch := range d.Chapters {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

// Submit sends the draft as one create request. On success the draft is reset; on failure it is left as it
// was. A draft without a thumbnail is rejected before anything is sent.
func (d *Draft) Submit(ctx context.Context, s Submitter) (*models.Course, error) {
	if d.ThumbnailURL == "" {
		return nil, qerrors.ThumbnailRequiredError
	}

	course, err := s.CreateCourse(ctx, d.Request())
	if err != nil {
		return nil, err
	}

	d.Reset()
	return course, nil
}

// Request builds the create request for the draft.
func (d *Draft) Request() *models.CreateCourseRequest {
	return &models.CreateCourseRequest{
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		Discount:     d.Discount,
		Chapters:     copyChapters(d.Chapters),
		ThumbnailURL: d.ThumbnailURL,
		NotesURL:     d.NotesURL,
	}
}

// Reset empties the draft.
func (d *Draft) Reset() {
	newID := d.newID
	*d = Draft{Chapters: []*models.Chapter{}, newID: newID}
}

func copyChapters(chapters []*models.Chapter) []*models.Chapter {
	out := make([]*models.Chapter, 0, len(chapters))
	for _, ch := range chapters {
		chCopy := *ch
		chCopy.Collapsed = false
		chCopy.Lectures = make([]*models.Lecture, 0, len(ch.Lectures))
		for _, l := range ch.Lectures {
			lCopy := *l
			chCopy.Lectures = append(chCopy.Lectures, &lCopy)
		}
		out = append(out, &chCopy)
	}
	return out
}
