package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascollins/portfolioctl/internal/client/api"
	"github.com/ascollins/portfolioctl/internal/client/form"
	"github.com/ascollins/portfolioctl/internal/client/notify"
)

// fakeAuth counts authorization calls so tests can assert the local size
// check short-circuits before any network work.
type fakeAuth struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (a *fakeAuth) AuthenticateUpload(context.Context) (api.UploadAuth, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return api.UploadAuth{}, a.err
	}
	return api.UploadAuth{Token: "tok", Expire: 1700000000, Signature: "sig"}, nil
}

func (a *fakeAuth) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// fakeForm records the dialog surface calls the uploader makes.
type fakeForm struct {
	mu       sync.Mutex
	media    map[string][]string
	inFlight map[string]int
	begun    int
	ended    int
}

func newFakeForm() *fakeForm {
	return &fakeForm{media: map[string][]string{}, inFlight: map[string]int{}}
}

func (f *fakeForm) AppendMedia(field, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media[field] = append(f.media[field], url)
}

func (f *fakeForm) BeginUpload(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight[field]++
	f.begun++
}

func (f *fakeForm) EndUpload(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight[field]--
	f.ended++
}

// notifyRec captures notifications.
type notifyRec struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *notifyRec) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *notifyRec) last(t *testing.T) notify.Notification {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.sent)
	return r.sent[len(r.sent)-1]
}

func newCDN(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		if r.FormValue("token") == "" || r.FormValue("signature") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "missing authorization"})
			return
		}
		name := r.FormValue("fileName")
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://ik.imagekit.io/portfolio/" + name})
	}))
}

func TestUpload_OversizedImageRejectedLocally(t *testing.T) {
	auth := &fakeAuth{}
	rec := &notifyRec{}
	u := NewUploader(auth, "http://cdn.invalid/upload", http.DefaultClient, rec, nil)
	f := newFakeForm()

	_, err := u.Upload(context.Background(), f, KindImage, "big.png", strings.NewReader("x"), 6_000_000, nil)

	require.ErrorIs(t, err, ErrRejected)
	assert.Zero(t, auth.count(), "size rejection must not request an authorization")
	assert.Empty(t, f.media[form.FieldImages])
	assert.Zero(t, f.begun, "upload state must stay untouched")
	assert.Equal(t, notify.Failure, rec.last(t).Kind)
	assert.Contains(t, rec.last(t).Message, "5 MB limit")
}

func TestUpload_CeilingIsExclusive(t *testing.T) {
	cdn := newCDN(t)
	defer cdn.Close()

	auth := &fakeAuth{}
	u := NewUploader(auth, cdn.URL, cdn.Client(), &notifyRec{}, nil)
	f := newFakeForm()

	// Exactly at the ceiling is already too big.
	_, err := u.Upload(context.Background(), f, KindImage, "edge.png", strings.NewReader("x"), MaxImageBytes, nil)
	require.ErrorIs(t, err, ErrRejected)
	assert.Zero(t, auth.count())

	// One byte below passes.
	_, err = u.Upload(context.Background(), f, KindImage, "under.png", strings.NewReader("x"), MaxImageBytes-1, nil)
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), f, KindVideo, "edge.mp4", strings.NewReader("x"), MaxVideoBytes, nil)
	require.ErrorIs(t, err, ErrRejected)
}

func TestUpload_LargeVideoWithinCeiling(t *testing.T) {
	cdn := newCDN(t)
	defer cdn.Close()

	auth := &fakeAuth{}
	rec := &notifyRec{}
	u := NewUploader(auth, cdn.URL, cdn.Client(), rec, nil)
	f := newFakeForm()

	// 40 MB is over the image ceiling but fine for video.
	url, err := u.Upload(context.Background(), f, KindVideo, "demo.mp4", strings.NewReader("frames"), 40_000_000, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, auth.count())
	require.Len(t, f.media[form.FieldVideos], 1)
	assert.Equal(t, url, f.media[form.FieldVideos][0])
	assert.True(t, strings.HasSuffix(url, ".mp4"), "upload names keep the original extension")
	assert.Equal(t, notify.Success, rec.last(t).Kind)
}

func TestUpload_AppendsInCompletionOrder(t *testing.T) {
	cdn := newCDN(t)
	defer cdn.Close()

	u := NewUploader(&fakeAuth{}, cdn.URL, cdn.Client(), &notifyRec{}, nil)
	f := newFakeForm()

	first, err := u.Upload(context.Background(), f, KindImage, "a.png", strings.NewReader("a"), 10, nil)
	require.NoError(t, err)
	second, err := u.Upload(context.Background(), f, KindImage, "b.png", strings.NewReader("b"), 10, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{first, second}, f.media[form.FieldImages])
	assert.Equal(t, f.begun, f.ended, "every upload must release its in-flight slot")
}

func TestUpload_AuthFailureSurfaced(t *testing.T) {
	remote := &api.Error{Status: 401, Message: "token expired"}
	auth := &fakeAuth{err: remote}
	rec := &notifyRec{}
	u := NewUploader(auth, "http://cdn.invalid/upload", http.DefaultClient, rec, nil)
	f := newFakeForm()

	_, err := u.Upload(context.Background(), f, KindImage, "a.png", strings.NewReader("a"), 10, nil)

	require.Error(t, err)
	assert.Empty(t, f.media[form.FieldImages], "failed upload must not touch the list")
	assert.Equal(t, "token expired", rec.last(t).Message)
	assert.Equal(t, f.begun, f.ended)
}

func TestUpload_CDNFailureLeavesListUnchanged(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer cdn.Close()

	rec := &notifyRec{}
	u := NewUploader(&fakeAuth{}, cdn.URL, cdn.Client(), rec, nil)
	f := newFakeForm()

	_, err := u.Upload(context.Background(), f, KindImage, "a.png", strings.NewReader("a"), 10, nil)

	require.Error(t, err)
	assert.Empty(t, f.media[form.FieldImages])
	assert.Equal(t, notify.Failure, rec.last(t).Kind)
}

func TestUpload_TagsForwarded(t *testing.T) {
	var gotTags string
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTags = r.FormValue("tags")
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://ik.imagekit.io/portfolio/x.png"})
	}))
	defer cdn.Close()

	u := NewUploader(&fakeAuth{}, cdn.URL, cdn.Client(), &notifyRec{}, nil)
	_, err := u.Upload(context.Background(), newFakeForm(), KindImage, "x.png", strings.NewReader("x"), 1, []string{"project", "7"})

	require.NoError(t, err)
	assert.Equal(t, "project,7", gotTags)
}

func TestCeiling(t *testing.T) {
	if Ceiling(KindImage) != MaxImageBytes || Ceiling(KindVideo) != MaxVideoBytes {
		t.Errorf("unexpected ceilings: image=%d video=%d", Ceiling(KindImage), Ceiling(KindVideo))
	}
	if FieldFor(KindImage) == FieldFor(KindVideo) {
		t.Error("kinds must map to distinct media fields")
	}
}
