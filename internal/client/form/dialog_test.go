package form

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascollins/portfolioctl/internal/client/api"
	"github.com/ascollins/portfolioctl/internal/client/notify"
)

// recorder captures notifications emitted by the dialog under test.
type recorder struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recorder) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recorder) last(t *testing.T) notify.Notification {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.sent, "expected a notification")
	return r.sent[len(r.sent)-1]
}

func TestDialog_ModeFromEntity(t *testing.T) {
	d := NewDialog(ProjectSchema(), &recorder{})

	d.OpenCreate()
	assert.Equal(t, ModeCreate, d.Mode())
	assert.EqualValues(t, 0, d.EntityID())

	d.OpenEdit(7, 3, Values{"title": "Old"}, nil)
	assert.Equal(t, ModeEdit, d.Mode())
	assert.EqualValues(t, 7, d.EntityID())
	assert.EqualValues(t, 3, d.BaseVersion())
	assert.Equal(t, "Old", d.Value("title"))
}

func TestDialog_ReopenResetsStaleEdits(t *testing.T) {
	d := NewDialog(ProjectSchema(), &recorder{})

	d.OpenEdit(7, 1, Values{"title": "Original"}, nil)
	d.Set("title", "Half-typed edit")
	d.Close()

	d.OpenEdit(7, 1, Values{"title": "Original"}, nil)
	assert.Equal(t, "Original", d.Value("title"), "reopening must discard the abandoned edit")
}

func TestDialog_SubmitRejectsInvalidWithoutSaving(t *testing.T) {
	rec := &recorder{}
	d := NewDialog(ProjectSchema(), rec)
	d.OpenCreate()
	d.Set("title", "")
	d.Set("description", "something")

	saved := false
	err := d.Submit(context.Background(), func(context.Context) error {
		saved = true
		return nil
	}, "Saved", "Save failed")

	require.ErrorIs(t, err, ErrInvalid)
	assert.False(t, saved, "save must not run when validation fails")
	assert.Equal(t, "Title is required", d.FieldError("title"))
	assert.True(t, d.IsOpen())
}

func TestDialog_SubmitSuccessClosesAndResets(t *testing.T) {
	rec := &recorder{}
	d := NewDialog(ProjectSchema(), rec)
	d.OpenEdit(7, 2, Values{"title": "T", "description": "D"}, map[string][]string{
		FieldImages: {"https://cdn.example.com/a.png"},
	})

	err := d.Submit(context.Background(), func(context.Context) error { return nil }, "Project updated", "Update failed")
	require.NoError(t, err)

	assert.False(t, d.IsOpen())
	assert.Equal(t, "", d.Value("title"))
	assert.Empty(t, d.Media(FieldImages))
	n := rec.last(t)
	assert.Equal(t, notify.Success, n.Kind)
	assert.Equal(t, "Project updated", n.Message)
}

func TestDialog_SubmitFailureKeepsValues(t *testing.T) {
	rec := &recorder{}
	d := NewDialog(ProjectSchema(), rec)
	d.OpenEdit(7, 2, Values{"title": "T", "description": "D"}, nil)

	remote := &api.Error{Status: 409, Message: "profile changed since it was loaded"}
	err := d.Submit(context.Background(), func(context.Context) error { return remote }, "Saved", "Save failed")

	require.Error(t, err)
	assert.True(t, d.IsOpen(), "dialog stays open so the user can retry")
	assert.Equal(t, "T", d.Value("title"))
	n := rec.last(t)
	assert.Equal(t, notify.Failure, n.Kind)
	assert.Equal(t, "profile changed since it was loaded", n.Message)
}

func TestDialog_SubmitFailureFallbackMessage(t *testing.T) {
	rec := &recorder{}
	d := NewDialog(ProjectSchema(), rec)
	d.OpenCreate()
	d.Set("title", "T")
	d.Set("description", "D")

	err := d.Submit(context.Background(), func(context.Context) error {
		return errors.New("dial tcp: connection refused")
	}, "Saved", "Save failed")

	require.Error(t, err)
	assert.Equal(t, "Save failed", rec.last(t).Message, "transport errors carry no remote message")
}

func TestDialog_UploadsGateSubmission(t *testing.T) {
	d := NewDialog(ProjectSchema(), &recorder{})
	d.OpenCreate()
	d.Set("title", "T")
	d.Set("description", "D")

	// One image and one video upload running concurrently.
	d.BeginUpload(FieldImages)
	d.BeginUpload(FieldVideos)
	assert.False(t, d.CanSubmit())

	d.EndUpload(FieldImages)
	assert.False(t, d.CanSubmit(), "submission stays disabled until every upload finishes")

	err := d.Submit(context.Background(), func(context.Context) error { return nil }, "Saved", "Save failed")
	assert.ErrorIs(t, err, ErrBusy)

	d.EndUpload(FieldVideos)
	assert.True(t, d.CanSubmit())
	require.NoError(t, d.Submit(context.Background(), func(context.Context) error { return nil }, "Saved", "Save failed"))
}

func TestDialog_MediaListEditing(t *testing.T) {
	d := NewDialog(ProjectSchema(), &recorder{})
	d.OpenCreate()

	d.AppendMedia(FieldImages, "https://cdn.example.com/1.png")
	d.AppendMedia(FieldImages, "https://cdn.example.com/2.png")
	d.AppendMedia(FieldImages, "https://cdn.example.com/3.png")
	d.RemoveMedia(FieldImages, 1)

	assert.Equal(t, []string{"https://cdn.example.com/1.png", "https://cdn.example.com/3.png"}, d.Media(FieldImages))

	// Out-of-range removals are no-ops.
	d.RemoveMedia(FieldImages, 5)
	d.RemoveMedia(FieldImages, -1)
	assert.Len(t, d.Media(FieldImages), 2)
}
