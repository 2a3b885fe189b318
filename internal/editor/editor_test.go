package editor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	requests []*models.CreateCourseRequest
	err      error
}

func (s *recordingSubmitter) CreateCourse(_ context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Course{ID: "course-1", Title: req.Title, Chapters: req.Chapters}, nil
}

// newTestDraft returns a draft with predictable IDs.
func newTestDraft() *Draft {
	d := NewDraft()
	n := 0
	d.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return d
}

func snapshot(d *Draft) *models.CreateCourseRequest {
	req := d.Request()
	// Request drops the collapsed flag; keep it so snapshots see toggles.
	for i, ch := range d.Chapters {
		req.Chapters[i].Collapsed = ch.Collapsed
	}
	return req
}

func TestChapterIDsUniqueAndOrdered(t *testing.T) {
	d := newTestDraft()

	d.Apply(AddChapter{Title: "one"}, AddChapter{Title: "two"}, AddChapter{Title: "three"})
	d.Apply(RemoveChapter{ChapterID: d.Chapters[1].ID})
	d.Apply(AddChapter{Title: "four"}, RemoveChapter{ChapterID: "missing"}, AddChapter{Title: "five"})

	seen := map[string]bool{}
	for i, ch := range d.Chapters {
		assert.False(t, seen[ch.ID], "duplicate chapter id %v", ch.ID)
		seen[ch.ID] = true
		if i > 0 {
			assert.Greater(t, ch.Order, d.Chapters[i-1].Order)
		}
	}
	assert.Len(t, d.Chapters, 4)
	assert.Equal(t, []string{"one", "three", "four", "five"}, titles(d.Chapters))
}

func TestFirstChapterAndLectureOrder(t *testing.T) {
	d := newTestDraft()
	d.Apply(AddChapter{Title: "intro"})
	ch := d.Chapters[0]
	assert.Equal(t, 1, ch.Order)

	d.Apply(
		AddLecture{ChapterID: ch.ID, Details: LectureDetails{Title: "a", Duration: 5, URL: "https://v/a", IsPreviewFree: true}},
		AddLecture{ChapterID: ch.ID, Details: LectureDetails{Title: "b", Duration: 7}},
	)
	require.Len(t, ch.Lectures, 2)
	assert.Equal(t, 1, ch.Lectures[0].Order)
	assert.Equal(t, 2, ch.Lectures[1].Order)
	assert.True(t, ch.Lectures[0].IsPreviewFree)
	assert.NotEqual(t, ch.Lectures[0].ID, ch.Lectures[1].ID)

	d.Apply(RemoveLecture{ChapterID: ch.ID, Index: 0}, AddLecture{ChapterID: ch.ID, Details: LectureDetails{Title: "c"}})
	assert.Equal(t, []int{2, 3}, []int{ch.Lectures[0].Order, ch.Lectures[1].Order})
}

func TestLectureCommandsOnMissingChapter(t *testing.T) {
	d := newTestDraft()
	d.Apply(AddChapter{Title: "intro"})
	before := snapshot(d)

	d.Apply(AddLecture{ChapterID: "missing", Details: LectureDetails{Title: "x"}}, RemoveLecture{ChapterID: "missing"})

	assert.Equal(t, before, snapshot(d))
}

func TestRemoveLectureOutOfRangeIsNoop(t *testing.T) {
	d := newTestDraft()
	d.Apply(AddChapter{Title: "intro"})
	ch := d.Chapters[0]
	d.Apply(AddLecture{ChapterID: ch.ID, Details: LectureDetails{Title: "a"}})
	before := snapshot(d)

	for _, index := range []int{-1, 1, 42} {
		d.Apply(RemoveLecture{ChapterID: ch.ID, Index: index})
		assert.Equal(t, before, snapshot(d), "index %d", index)
	}
}

func TestToggleChapterIsNotSubmitted(t *testing.T) {
	d := newTestDraft()
	d.Apply(AddChapter{Title: "intro"})
	id := d.Chapters[0].ID

	d.Apply(ToggleChapter{ChapterID: id})
	assert.True(t, d.Chapters[0].Collapsed)
	assert.False(t, d.Request().Chapters[0].Collapsed)

	d.Apply(ToggleChapter{ChapterID: id}, ToggleChapter{ChapterID: "missing"})
	assert.False(t, d.Chapters[0].Collapsed)
}

func TestSubmitWithoutThumbnail(t *testing.T) {
	d := newTestDraft()
	d.Title = "Go"
	d.Apply(AddChapter{Title: "intro"})
	before := snapshot(d)
	s := &recordingSubmitter{}

	_, err := d.Submit(context.Background(), s)

	assert.ErrorIs(t, err, qerrors.ThumbnailRequiredError)
	assert.Empty(t, s.requests)
	assert.Equal(t, before, snapshot(d))
	assert.Equal(t, "Go", d.Title)
}

func TestSubmitSuccessResetsDraft(t *testing.T) {
	d := newTestDraft()
	d.Title = "Go"
	d.Description = "<p>Learn Go</p>"
	d.Price = 100
	d.Discount = 20
	d.ThumbnailURL = "https://img/go.png"
	d.Apply(AddChapter{Title: "intro"})
	d.Apply(AddLecture{ChapterID: d.Chapters[0].ID, Details: LectureDetails{Title: "hello", Duration: 3}})
	s := &recordingSubmitter{}

	course, err := d.Submit(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "course-1", course.ID)

	require.Len(t, s.requests, 1)
	req := s.requests[0]
	assert.Equal(t, "Go", req.Title)
	assert.Equal(t, 100.0, req.Price)
	assert.Equal(t, 20.0, req.Discount)
	assert.Equal(t, "https://img/go.png", req.ThumbnailURL)
	require.Len(t, req.Chapters, 1)
	assert.Len(t, req.Chapters[0].Lectures, 1)

	assert.Empty(t, d.Title)
	assert.Empty(t, d.ThumbnailURL)
	assert.Empty(t, d.Chapters)
	assert.Zero(t, d.Price)

	// The draft keeps working after a reset.
	d.Apply(AddChapter{Title: "again"})
	assert.Len(t, d.Chapters, 1)
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	d := newTestDraft()
	d.Title = "Go"
	d.ThumbnailURL = "https://img/go.png"
	d.Apply(AddChapter{Title: "intro"})
	before := snapshot(d)
	s := &recordingSubmitter{err: errors.New("network down")}

	_, err := d.Submit(context.Background(), s)

	assert.ErrorIs(t, err, s.err)
	assert.Len(t, s.requests, 1)
	assert.Equal(t, before, snapshot(d))
}

func titles(chapters []*models.Chapter) []string {
	out := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, ch.Title)
	}
	return out
}

func TestZeroDraftIsUsable(t *testing.T) {
	var d Draft
	d.Apply(AddChapter{Title: "Intro"}, AddChapter{Title: "Next"})
	require.Len(t, d.Chapters, 2)
	assert.NotEmpty(t, d.Chapters[0].ID)
	assert.NotEqual(t, d.Chapters[0].ID, d.Chapters[1].ID)

	d.Apply(AddLecture{ChapterID: d.Chapters[0].ID, Details: LectureDetails{Title: "Hello"}})
	require.Len(t, d.Chapters[0].Lectures, 1)
	assert.NotEmpty(t, d.Chapters[0].Lectures[0].ID)
}
