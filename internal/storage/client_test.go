package storage_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/config"
	"quill/internal/services"
	"quill/internal/storage"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *storage.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := config.Default()
	cfg.Storage.APIURL = server.URL
	cfg.Storage.APIKey = "secret"
	return storage.NewClient(&cfg, storage.WithHTTPClient(server.Client()))
}

func TestUpload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Query().Get("action") != "upload" {
			t.Errorf("unexpected action %q", r.URL.Query().Get("action"))
		}
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("missing api key header")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "cover-123.jpg" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "image-bytes" {
			t.Errorf("unexpected payload %q", data)
		}
		_, _ = w.Write([]byte(`{"success":true,"url":"https://files.example.com/cover-123.jpg"}`))
	})

	url, err := client.Upload(context.Background(), "cover-123.jpg", []byte("image-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://files.example.com/cover-123.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestUploadRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"quota exceeded"}`))
	})

	_, err := client.Upload(context.Background(), "a.jpg", []byte("x"))
	if !errors.Is(err, services.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestUploadUnconfigured(t *testing.T) {
	client := storage.NewClient(nil)
	if client.Configured() {
		t.Fatal("zero client must not report configured")
	}
	_, err := client.Upload(context.Background(), "a.jpg", []byte("x"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "list" {
			t.Errorf("unexpected action %q", r.URL.Query().Get("action"))
		}
		_, _ = w.Write([]byte(`[{"filename":"a.jpg","url":"https://files.example.com/a.jpg","size":2048,"mtime":1700000000}]`))
	})

	files, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "a.jpg" || files[0].Size != 2048 {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestDelete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Query().Get("filename") != "a.jpg" {
			t.Errorf("unexpected filename %q", r.URL.Query().Get("filename"))
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Delete(context.Background(), "a.jpg"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDeleteHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	err := client.Delete(context.Background(), "missing.jpg")
	if !errors.Is(err, services.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
