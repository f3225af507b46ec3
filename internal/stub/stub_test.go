package stub

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func uploadBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	part, err := mw.CreateFormFile("file", "a.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("png bytes")); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUpload_ReturnsCanonicalURL(t *testing.T) {
	srv := httptest.NewServer(New("tok", nil).Router())
	defer srv.Close()

	body, contentType := uploadBody(t, map[string]string{
		"fileName":  "deadbeef.png",
		"token":     "upload-token",
		"signature": "sig",
	})
	res, err := http.Post(srv.URL+"/upload", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.URL != "https://ik.imagekit.io/portfolio/deadbeef.png" {
		t.Errorf("unexpected URL %q", out.URL)
	}
}

func TestUpload_RequiresAuthorizationFields(t *testing.T) {
	srv := httptest.NewServer(New("tok", nil).Router())
	defer srv.Close()

	body, contentType := uploadBody(t, map[string]string{"fileName": "x.png"})
	res, err := http.Post(srv.URL+"/upload", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token/signature, got %d", res.StatusCode)
	}
}

func TestAPI_RejectsNonJSONBodies(t *testing.T) {
	srv := httptest.NewServer(New("tok", nil).Router())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/user/profile", strings.NewReader("name=alex"))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "tok")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415 for a non-JSON body, got %d", res.StatusCode)
	}
}
