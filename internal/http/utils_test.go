package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/blockeditor/internal/domain"
	"github.com/Notifuse/blockeditor/internal/domain/mocks"
	"github.com/Notifuse/blockeditor/pkg/blocks"
)

func TestWriteJSONError(t *testing.T) {
	testCases := []struct {
		name       string
		message    string
		statusCode int
	}{
		{name: "bad_request", message: "Bad request", statusCode: http.StatusBadRequest},
		{name: "conflict", message: "Version mismatch", statusCode: http.StatusConflict},
		{name: "empty_message", message: "", statusCode: http.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteJSONError(w, tc.message, tc.statusCode)

			assert.Equal(t, tc.statusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var response map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tc.message, response["error"])
		})
	}
}

func TestWriteJSONError_EncoderFailure(t *testing.T) {
	w := &failingResponseWriter{ResponseWriter: httptest.NewRecorder()}

	// must not panic when the body cannot be written
	WriteJSONError(w, "Test message", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.status)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

type failingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (f *failingResponseWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func (f *failingResponseWriter) WriteHeader(statusCode int) {
	f.status = statusCode
	f.ResponseWriter.WriteHeader(statusCode)
}

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		err    error
		status int
	}{
		{domain.NewValidationError("bad"), http.StatusBadRequest},
		{&domain.ErrNotFound{Entity: "document", ID: "x"}, http.StatusNotFound},
		{fmt.Errorf("%w: x", blocks.ErrBlockNotFound), http.StatusNotFound},
		{&domain.ErrVersionConflict{DocumentID: "x", Expected: 1}, http.StatusConflict},
		{blocks.ErrNoParent, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: root", blocks.ErrRootBlock), http.StatusUnprocessableEntity},
		{blocks.ErrNotContainer, http.StatusUnprocessableEntity},
		{blocks.ErrInvalidSlot, http.StatusUnprocessableEntity},
		{blocks.ErrInvalidDirection, http.StatusUnprocessableEntity},
		{blocks.ErrInvalidDocument, http.StatusUnprocessableEntity},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.status, statusFor(tc.err))
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("client errors keep their message", func(t *testing.T) {
		log := mocks.NewMockLogger(ctrl)
		w := httptest.NewRecorder()

		writeServiceError(w, log, blocks.ErrRootBlock, "Failed to delete block")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), blocks.ErrRootBlock.Error())
	})

	t.Run("internal errors are logged and masked", func(t *testing.T) {
		log := mocks.NewMockLogger(ctrl)
		log.EXPECT().WithField("error", "pq: connection reset").Return(log)
		log.EXPECT().Error("Failed to delete block")
		w := httptest.NewRecorder()

		writeServiceError(w, log, errors.New("pq: connection reset"), "Failed to delete block")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
		assert.Contains(t, w.Body.String(), "Failed to delete block")
	})
}
