package tika

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillgenome/skillgenome/internal/domain"
)

func TestNew(t *testing.T) {
	client := New("http://tika.example.com")
	require.NotNil(t, client)
	assert.Equal(t, "http://tika.example.com", client.baseURL)
	require.NotNil(t, client.httpClient)
}

func TestExtract_RejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()
	client := New("http://localhost:9998")

	for _, name := range []string{"resume.txt", "resume.png", "resume", "resume.doc"} {
		_, err := client.Extract(context.Background(), name, []byte("data"))
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat), name)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	t.Parallel()
	client := New("http://localhost:9998")
	_, err := client.Extract(context.Background(), "resume.pdf", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestExtract_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("Built services\x00 in   Go.\n\nAnd SQL."))
	}))
	defer srv.Close()

	client := New(srv.URL)
	got, err := client.Extract(context.Background(), "resume.pdf", []byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, "Built services in Go. And SQL.", got)
}

func TestExtract_DocxContentType(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Extract(context.Background(), "Resume.DOCX", []byte("PK fake"))
	require.NoError(t, err)
}

func TestExtract_TikaUnsupportedMedia(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnsupportedMediaType)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Extract(context.Background(), "resume.pdf", []byte("not a pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}

func TestExtract_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Extract(context.Background(), "resume.pdf", []byte("data"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInternal))
}

func TestPing(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version", r.URL.Path)
		_, _ = w.Write([]byte("Apache Tika 2.9.0"))
	}))
	defer srv.Close()

	client := New(srv.URL)
	require.NoError(t, client.Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL)
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInternal))
}

func TestExtract_ContextCancelled(t *testing.T) {
	t.Parallel()
	client := New("http://localhost:9998")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Extract(ctx, "resume.pdf", []byte("data"))
	require.Error(t, err)
}
