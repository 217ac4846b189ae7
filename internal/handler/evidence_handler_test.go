package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/kururay/backend/internal/model"
	"github.com/kururay/backend/internal/service"
)

// mockEvidenceService は EvidenceService のモック
type mockEvidenceService struct {
	createFunc      func(ctx context.Context, e *model.Evidence) error
	listFunc        func(ctx context.Context, projectID int64) ([]model.Evidence, error)
	deleteFunc      func(ctx context.Context, id int64) error
	attachPhotoFunc func(ctx context.Context, id int64, data io.Reader, contentType string) (*model.Evidence, error)
}

func (m *mockEvidenceService) Create(ctx context.Context, e *model.Evidence) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, e)
	}
	return nil
}

func (m *mockEvidenceService) ListByProject(ctx context.Context, projectID int64) ([]model.Evidence, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *mockEvidenceService) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockEvidenceService) AttachPhoto(ctx context.Context, id int64, data io.Reader, contentType string) (*model.Evidence, error) {
	if m.attachPhotoFunc != nil {
		return m.attachPhotoFunc(ctx, id, data, contentType)
	}
	return &model.Evidence{ID: id}, nil
}

func evidenceMux(svc service.EvidenceService) *http.ServeMux {
	h := NewEvidenceHandler(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /voluntariados/{id}/evidencias", h.List)
	mux.HandleFunc("POST /voluntariados/{id}/evidencias", h.Create)
	mux.HandleFunc("DELETE /evidencias/{id}", h.Delete)
	mux.HandleFunc("POST /evidencias/{id}/foto", h.UploadPhoto)
	return mux
}

func multipartPhoto(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="foto.bin"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestEvidenceHandler_Create(t *testing.T) {
	var got *model.Evidence
	mock := &mockEvidenceService{
		createFunc: func(ctx context.Context, e *model.Evidence) error {
			got = e
			e.ID = 1
			return nil
		},
	}
	body := bytes.NewBufferString(`{"fecha":"2026-05-10","descripcion":"Siembra","asistentes":8,"ausentes":2}`)
	rec := httptest.NewRecorder()
	evidenceMux(mock).ServeHTTP(rec, httptest.NewRequest("POST", "/voluntariados/4/evidencias", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.ProjectID != 4 || got.Attendees != 8 || got.Absentees != 2 {
		t.Errorf("unexpected evidence %+v", got)
	}
}

func TestEvidenceHandler_Create_NotActive(t *testing.T) {
	mock := &mockEvidenceService{
		createFunc: func(ctx context.Context, e *model.Evidence) error { return service.ErrProjectNotActive },
	}
	body := bytes.NewBufferString(`{"fecha":"2026-05-10","descripcion":"Siembra"}`)
	rec := httptest.NewRecorder()
	evidenceMux(mock).ServeHTTP(rec, httptest.NewRequest("POST", "/voluntariados/4/evidencias", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestEvidenceHandler_Delete_NotFound(t *testing.T) {
	mock := &mockEvidenceService{
		deleteFunc: func(ctx context.Context, id int64) error { return &service.NotFoundError{Resource: "Evidencia"} },
	}
	rec := httptest.NewRecorder()
	evidenceMux(mock).ServeHTTP(rec, httptest.NewRequest("DELETE", "/evidencias/9", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Evidencia no encontrado" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestEvidenceHandler_UploadPhoto(t *testing.T) {
	var gotType string
	var gotData []byte
	mock := &mockEvidenceService{
		attachPhotoFunc: func(ctx context.Context, id int64, data io.Reader, contentType string) (*model.Evidence, error) {
			gotType = contentType
			gotData, _ = io.ReadAll(data)
			return &model.Evidence{ID: id, PhotoURL: "/uploads/evidencias/4/x.png"}, nil
		},
	}
	body, ct := multipartPhoto(t, "foto", "image/png", []byte("\x89PNG..."))
	req := httptest.NewRequest("POST", "/evidencias/9/foto", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	evidenceMux(mock).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotType != "image/png" {
		t.Errorf("expected image/png, got %q", gotType)
	}
	if string(gotData) != "\x89PNG..." {
		t.Errorf("unexpected data %q", gotData)
	}
}

func TestEvidenceHandler_UploadPhoto_Rejects(t *testing.T) {
	mux := evidenceMux(&mockEvidenceService{})

	// フィールド名違い
	body, ct := multipartPhoto(t, "image", "image/png", []byte("x"))
	req := httptest.NewRequest("POST", "/evidencias/9/foto", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing field: expected 400, got %d", rec.Code)
	}

	// 5 MB 超
	body, ct = multipartPhoto(t, "foto", "image/jpeg", bytes.Repeat([]byte("a"), maxPhotoSize+1024))
	req = httptest.NewRequest("POST", "/evidencias/9/foto", body)
	req.Header.Set("Content-Type", ct)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized: expected 400, got %d", rec.Code)
	}

	// multipart ではない
	req = httptest.NewRequest("POST", "/evidencias/9/foto", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("not multipart: expected 400, got %d", rec.Code)
	}
}
