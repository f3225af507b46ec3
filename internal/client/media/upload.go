// Package media implements the upload attachment helper and the media
// viewer of the dashboard.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ascollins/portfolioctl/internal/client/api"
	"github.com/ascollins/portfolioctl/internal/client/form"
	"github.com/ascollins/portfolioctl/internal/client/notify"
)

// Kind is the media kind of an upload. Each kind has its own size ceiling
// and its own in-flight state on the owning dialog.
type Kind string

const (
	// KindImage is a picture upload, capped at 5 MB.
	KindImage Kind = "image"
	// KindVideo is a video upload, capped at 50 MB.
	KindVideo Kind = "video"
)

// Size ceilings enforced locally before any network round-trip. The bound is
// exclusive: a file must be strictly smaller than its kind's ceiling.
const (
	MaxImageBytes = 5_000_000
	MaxVideoBytes = 50_000_000
)

// ErrRejected means the local pre-flight check refused the file. The upload
// never reached the network.
var ErrRejected = errors.New("media: upload rejected")

// Ceiling returns the size ceiling in bytes for the kind.
func Ceiling(kind Kind) int64 {
	if kind == KindVideo {
		return MaxVideoBytes
	}
	return MaxImageBytes
}

// FieldFor maps a kind to the form media field it appends to.
func FieldFor(kind Kind) string {
	if kind == KindVideo {
		return form.FieldVideos
	}
	return form.FieldImages
}

// Authorizer obtains the short-lived CDN upload authorization.
type Authorizer interface {
	AuthenticateUpload(ctx context.Context) (api.UploadAuth, error)
}

// Form is the dialog surface the helper writes to: the ordered URL list and
// the per-field upload state.
type Form interface {
	AppendMedia(field, url string)
	BeginUpload(field string)
	EndUpload(field string)
}

// Uploader streams files to the media CDN using backend-issued
// authorizations.
type Uploader struct {
	auth     Authorizer
	endpoint string
	http     *http.Client
	notifier notify.Notifier
	log      *zap.Logger
}

// NewUploader creates an Uploader posting to the given CDN endpoint.
func NewUploader(auth Authorizer, endpoint string, httpClient *http.Client, notifier notify.Notifier, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{
		auth:     auth,
		endpoint: endpoint,
		http:     httpClient,
		notifier: notifier,
		log:      log,
	}
}

// Upload attaches one file to the dialog's media list for the kind:
// it rejects oversized files locally, obtains an upload authorization,
// streams the file to the CDN and appends the returned URL. On any failure
// the list is left unchanged and a failure notification is emitted; an
// authorization failure is surfaced, never swallowed.
func (u *Uploader) Upload(ctx context.Context, f Form, kind Kind, filename string, r io.Reader, size int64, tags []string) (string, error) {
	if size >= Ceiling(kind) {
		notify.Failuref(u.notifier, fmt.Sprintf("Upload failed: %s exceeds the %d MB limit", filename, Ceiling(kind)/1_000_000))
		return "", fmt.Errorf("%w: %s is %d bytes, ceiling %d", ErrRejected, filename, size, Ceiling(kind))
	}

	field := FieldFor(kind)
	f.BeginUpload(field)
	defer f.EndUpload(field)

	auth, err := u.auth.AuthenticateUpload(ctx)
	if err != nil {
		notify.Failuref(u.notifier, api.RemoteMessage(err, "Upload authentication failed"))
		return "", err
	}

	url, err := u.send(ctx, auth, filename, r, tags)
	if err != nil {
		u.log.Warn("upload failed", zap.String("file", filename), zap.Error(err))
		notify.Failuref(u.notifier, "Upload failed")
		return "", err
	}

	f.AppendMedia(field, url)
	notify.Successf(u.notifier, "Upload successful")
	return url, nil
}

// send performs the multipart CDN request. The file body is streamed through
// a pipe rather than buffered in memory.
func (u *Uploader) send(ctx context.Context, auth api.UploadAuth, filename string, r io.Reader, tags []string) (string, error) {
	unique := uuid.NewString() + path.Ext(filename)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := func() error {
			if err := mw.WriteField("fileName", unique); err != nil {
				return err
			}
			if err := mw.WriteField("useUniqueFileName", "true"); err != nil {
				return err
			}
			if len(tags) > 0 {
				if err := mw.WriteField("tags", strings.Join(tags, ",")); err != nil {
					return err
				}
			}
			if err := mw.WriteField("token", auth.Token); err != nil {
				return err
			}
			if err := mw.WriteField("expire", strconv.FormatInt(auth.Expire, 10)); err != nil {
				return err
			}
			if err := mw.WriteField("signature", auth.Signature); err != nil {
				return err
			}
			part, err := mw.CreateFormFile("file", filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, r); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("cdn request: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			u.log.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("cdn http %d", res.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode cdn response: %w", err)
	}
	if out.URL == "" {
		return "", errors.New("cdn response missing url")
	}
	return out.URL, nil
}
