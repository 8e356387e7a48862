package whisper_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"fetchd/internal/services"
	"fetchd/internal/services/whisper"
	"fetchd/internal/testsupport"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	testsupport.WriteFile(t, path, []byte("fake-mp3-bytes"))
	return path
}

func TestTranscribeRequiresCredential(t *testing.T) {
	client := whisper.NewClient("")
	_, err := client.Transcribe(context.Background(), "/tmp/clip.mp3")
	if !errors.Is(err, services.ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
	if !services.Recoverable(err) {
		t.Fatal("missing credential should be recoverable")
	}
}

func TestTranscribeUploadsAudio(t *testing.T) {
	var gotAuth, gotModel string
	var gotFile []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			gotFile, _ = io.ReadAll(file)
			file.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":"  hello from the fjords  "}`)
	}))
	defer server.Close()

	client := whisper.NewClient("test-key", whisper.WithBaseURL(server.URL))
	text, err := client.Transcribe(context.Background(), writeAudioFixture(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello from the fjords" {
		t.Fatalf("text = %q", text)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotModel != "whisper-1" {
		t.Fatalf("model = %q", gotModel)
	}
	if string(gotFile) != "fake-mp3-bytes" {
		t.Fatalf("uploaded bytes = %q", gotFile)
	}
}

func TestTranscribeModelOverride(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		gotModel = r.FormValue("model")
		io.WriteString(w, `{"text":"ok"}`)
	}))
	defer server.Close()

	client := whisper.NewClient("test-key", whisper.WithBaseURL(server.URL), whisper.WithModel("whisper-large"))
	if _, err := client.Transcribe(context.Background(), writeAudioFixture(t)); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if gotModel != "whisper-large" {
		t.Fatalf("model = %q", gotModel)
	}
}

func TestTranscribeAPIErrorIsRecoverable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := whisper.NewClient("test-key", whisper.WithBaseURL(server.URL))
	_, err := client.Transcribe(context.Background(), writeAudioFixture(t))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("err = %v, want ErrExternalTool", err)
	}
	if !services.Recoverable(err) {
		t.Fatal("api failure should allow caption fallback")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error should mention status code: %v", err)
	}
}

func TestTranscribeRejectsEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"text":"   "}`)
	}))
	defer server.Close()

	client := whisper.NewClient("test-key", whisper.WithBaseURL(server.URL))
	_, err := client.Transcribe(context.Background(), writeAudioFixture(t))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("err = %v, want ErrExternalTool", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	client := whisper.NewClient("test-key")
	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"))
	if err == nil {
		t.Fatal("expected error for missing audio file")
	}
}
