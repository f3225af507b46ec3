package form

import (
	"context"
	"errors"
	"sync"

	"github.com/ascollins/portfolioctl/internal/client/api"
	"github.com/ascollins/portfolioctl/internal/client/notify"
)

// Local submission errors. Neither ever reaches the network.
var (
	// ErrBusy means a mutation or an upload is still pending.
	ErrBusy = errors.New("form: submission disabled while work is pending")
	// ErrInvalid means validation rejected one or more fields.
	ErrInvalid = errors.New("form: validation failed")
)

// Mode tells whether the dialog creates a new entity or edits an existing
// one. It is derived from whether an entity was supplied on open, never from
// a separate flag.
type Mode int

const (
	// ModeCreate starts from blank values.
	ModeCreate Mode = iota
	// ModeEdit starts pre-populated from an existing entity.
	ModeEdit
)

// Dialog is the generic edit dialog: a schema-bound form holding a transient
// local copy of the entity. It never mutates the cache directly; submission
// goes through the save callback, which is expected to be a cache-client
// mutation (the sole writer).
type Dialog struct {
	mu sync.Mutex

	schema   Schema
	notifier notify.Notifier

	open      bool
	hasEntity bool
	entityID  int64
	baseVer   int64

	values    Values
	fieldErrs map[string]string

	// media holds the ordered URL lists by field name ("images", "videos").
	media map[string][]string
	// uploading counts in-flight uploads per media field.
	uploading map[string]int

	// pending is true while a submit mutation is in flight.
	pending bool
}

// NewDialog creates a closed dialog bound to the given schema.
func NewDialog(schema Schema, notifier notify.Notifier) *Dialog {
	return &Dialog{
		schema:   schema,
		notifier: notifier,
	}
}

// OpenCreate opens the dialog in create mode with blank values.
func (d *Dialog) OpenCreate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.hasEntity = false
	d.entityID = 0
	d.baseVer = 0
	d.reset(nil, nil)
}

// OpenEdit opens the dialog in edit mode. The form is reset to the entity's
// current values on every call, so stale edits from an earlier session are
// never shown. id is the entity id (0 for the profile, which has none) and
// baseVersion the optimistic-concurrency token submitted with the save.
func (d *Dialog) OpenEdit(id, baseVersion int64, values Values, media map[string][]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.hasEntity = true
	d.entityID = id
	d.baseVer = baseVersion
	d.reset(values, media)
}

// reset replaces form state. Callers hold the lock.
func (d *Dialog) reset(values Values, media map[string][]string) {
	d.values = make(Values, len(d.schema.Fields))
	for _, f := range d.schema.Fields {
		d.values[f.Name] = values[f.Name]
	}
	d.media = make(map[string][]string, len(media))
	for field, urls := range media {
		d.media[field] = append([]string(nil), urls...)
	}
	d.fieldErrs = nil
	d.uploading = make(map[string]int)
	d.pending = false
}

// Close closes the dialog, keeping entered values. A later OpenCreate or
// OpenEdit resets them.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
}

// IsOpen reports whether the dialog is shown.
func (d *Dialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Mode returns ModeEdit when an entity was supplied on open.
func (d *Dialog) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hasEntity {
		return ModeEdit
	}
	return ModeCreate
}

// EntityID returns the id supplied on open; 0 in create mode.
func (d *Dialog) EntityID() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entityID
}

// BaseVersion returns the optimistic-concurrency token supplied on open.
func (d *Dialog) BaseVersion() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.baseVer
}

// Set stores one field value.
func (d *Dialog) Set(field, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.values == nil {
		d.values = make(Values)
	}
	d.values[field] = value
}

// Value returns one field value.
func (d *Dialog) Value(field string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values[field]
}

// FieldError returns the validation message for field, if any.
func (d *Dialog) FieldError(field string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fieldErrs[field]
}

// Validate runs schema validation and records field-scoped messages.
// It reports whether the form is submittable.
func (d *Dialog) Validate() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fieldErrs = d.schema.Validate(d.values)
	return len(d.fieldErrs) == 0
}

// AppendMedia appends an uploaded URL to the ordered list of the given media
// field, preserving existing entries and insertion order.
func (d *Dialog) AppendMedia(field, url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.media[field] = append(d.media[field], url)
}

// RemoveMedia deletes entry i from the given media field. The remote file is
// not retracted; the list edit is local until the next save.
func (d *Dialog) RemoveMedia(field string, i int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.media[field]
	if i < 0 || i >= len(list) {
		return
	}
	d.media[field] = append(list[:i:i], list[i+1:]...)
}

// Media returns a copy of the ordered URL list of the given media field.
func (d *Dialog) Media(field string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.media[field]...)
}

// BeginUpload marks one upload in flight for the given media field.
func (d *Dialog) BeginUpload(field string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploading[field]++
}

// EndUpload marks one upload finished (success or failure).
func (d *Dialog) EndUpload(field string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.uploading[field] > 0 {
		d.uploading[field]--
	}
}

// Uploading reports whether the given media field has uploads in flight.
func (d *Dialog) Uploading(field string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uploading[field] > 0
}

// CanSubmit reports whether the submit control is enabled: no mutation
// pending and no upload in flight for any media field of this dialog.
func (d *Dialog) CanSubmit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.canSubmit()
}

func (d *Dialog) canSubmit() bool {
	if d.pending {
		return false
	}
	for _, n := range d.uploading {
		if n > 0 {
			return false
		}
	}
	return true
}

// Submit validates the form and runs save. On success it emits successMsg,
// closes the dialog and resets it to blank; the save callback is responsible
// for cache invalidation (cache-client mutations invalidate on success).
// On failure the dialog stays open with values intact and a failure
// notification carries the remote message when one is present, falling back
// to fallbackMsg.
func (d *Dialog) Submit(ctx context.Context, save func(ctx context.Context) error, successMsg, fallbackMsg string) error {
	d.mu.Lock()
	if !d.canSubmit() {
		d.mu.Unlock()
		return ErrBusy
	}
	d.fieldErrs = d.schema.Validate(d.values)
	if len(d.fieldErrs) > 0 {
		d.mu.Unlock()
		return ErrInvalid
	}
	d.pending = true
	d.mu.Unlock()

	err := save(ctx)

	d.mu.Lock()
	d.pending = false
	if err != nil {
		d.mu.Unlock()
		notify.Failuref(d.notifier, api.RemoteMessage(err, fallbackMsg))
		return err
	}
	d.open = false
	d.hasEntity = false
	d.entityID = 0
	d.baseVer = 0
	d.reset(nil, nil)
	d.mu.Unlock()

	notify.Successf(d.notifier, successMsg)
	return nil
}
