package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"checkpoint-service/internal/domain/entity"
	"checkpoint-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFaceClientMissingConfig(t *testing.T) {
	_, err := NewFaceClient("", "key", logger.NewNop())
	assert.ErrorIs(t, err, entity.ErrMissingConfig)

	_, err = NewFaceClient("http://x", "", logger.NewNop())
	assert.ErrorIs(t, err, entity.ErrMissingConfig)
}

func TestCompareMatchingFaces(t *testing.T) {
	var detectCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/face/v1.0/detect"):
			n := detectCalls.Add(1)
			if n == 1 {
				json.NewEncoder(w).Encode([]map[string]string{{"faceId": "ref-face"}})
			} else {
				json.NewEncoder(w).Encode([]map[string]string{{"faceId": "cand-face"}})
			}
		case r.URL.Path == "/face/v1.0/verify":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "ref-face", body["faceId1"])
			assert.Equal(t, "cand-face", body["faceId2"])
			json.NewEncoder(w).Encode(map[string]interface{}{
				"isIdentical": true,
				"confidence":  0.92,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewFaceClient(server.URL, "key", logger.NewNop())
	require.NoError(t, err)

	match, err := client.Compare(context.Background(), []byte("id photo"), []byte("camera frame"))
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "ref-face", match.FaceIDReference)
	assert.Equal(t, "cand-face", match.FaceIDComparison)
	assert.True(t, match.IsIdentical)
	assert.Equal(t, 0.92, match.Confidence)
}

func TestCompareNoFaceDetected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// no faces in either image
		json.NewEncoder(w).Encode([]map[string]string{})
	}))
	defer server.Close()

	client, err := NewFaceClient(server.URL, "key", logger.NewNop())
	require.NoError(t, err)

	match, err := client.Compare(context.Background(), []byte("id photo"), []byte("camera frame"))
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestCompareDetectFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad key"))
	}))
	defer server.Close()

	client, err := NewFaceClient(server.URL, "key", logger.NewNop())
	require.NoError(t, err)

	_, err = client.Compare(context.Background(), []byte("id photo"), []byte("camera frame"))
	assert.Error(t, err)
}
