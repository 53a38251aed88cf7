package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	handler "docman/handler/http"
	"docman/src/core/qa"
)

type emptyChunkSearcher struct{}

func (emptyChunkSearcher) SearchFullText(_ context.Context, _ string, _ int) ([]qa.ChunkHit, error) {
	return nil, nil
}

func (emptyChunkSearcher) SearchSubstring(_ context.Context, _ string, _ int) ([]qa.ChunkHit, error) {
	return nil, nil
}

type emptyDocumentSearcher struct{}

func (emptyDocumentSearcher) SearchFullText(_ context.Context, _ string, _ int) ([]qa.DocumentHit, error) {
	return nil, nil
}

func (emptyDocumentSearcher) SearchSubstring(_ context.Context, _ string, _ int) ([]qa.DocumentHit, error) {
	return nil, nil
}

type emptyTitles struct{}

func (emptyTitles) DocumentTitle(_ context.Context, _ int64) (string, bool, error) {
	return "", false, nil
}

func newQARouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewQAHandler(qa.NewService(emptyChunkSearcher{}, emptyDocumentSearcher{}, emptyTitles{}))
	r.POST("/api/v1/qa/question", h.Ask)
	return r
}

func askQuestion(t *testing.T, router *gin.Engine, question string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/qa/question", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAskQuestionLength(t *testing.T) {
	router := newQARouter()

	tests := []struct {
		name     string
		question string
		want     int
	}{
		{"blank", "   ", http.StatusBadRequest},
		{"too short", "ab", http.StatusBadRequest},
		{"too long", strings.Repeat("a", 501), http.StatusBadRequest},
		{"at upper bound", strings.Repeat("a", 500), http.StatusOK},
		// 440 characters but well over 500 bytes; the bound counts
		// characters, not bytes.
		{"multibyte under bound", strings.Repeat("ドキュメントとは何ですか", 40), http.StatusOK},
		{"multibyte over bound", strings.Repeat("ドキュメントとは何ですか", 50), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := askQuestion(t, router, tt.question).Code; got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}
