package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/pkg/httpclient"
)

func newTestTranslator(t *testing.T, handler http.HandlerFunc) *Translator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := httpclient.NewRestyClient(2 * time.Second)
	return New(client, "test-key", logger.NopLogger{}, WithEndpoint(server.URL))
}

func TestTranslateSuccess(t *testing.T) {
	var gotQuery map[string]string
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":      r.URL.Query().Get("q"),
			"target": r.URL.Query().Get("target"),
			"key":    r.URL.Query().Get("key"),
		}
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"你好"}]}}`))
	})

	got := tr.Translate(context.Background(), "hello")

	if got != "你好" {
		t.Errorf("Translate = %q, want %q", got, "你好")
	}
	if gotQuery["q"] != "hello" {
		t.Errorf("q param = %q, want %q", gotQuery["q"], "hello")
	}
	if gotQuery["target"] != DefaultTarget {
		t.Errorf("target param = %q, want %q", gotQuery["target"], DefaultTarget)
	}
	if gotQuery["key"] != "test-key" {
		t.Errorf("key param = %q, want %q", gotQuery["key"], "test-key")
	}
}

func TestTranslateEmptyInputUsesPlaceholder(t *testing.T) {
	var gotQ string
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"無標題"}]}}`))
	})

	got := tr.Translate(context.Background(), "")

	if gotQ != DefaultPlaceholder {
		t.Errorf("submitted q = %q, want placeholder %q", gotQ, DefaultPlaceholder)
	}
	if got != DefaultPlaceholder {
		t.Errorf("Translate = %q, want %q", got, DefaultPlaceholder)
	}
}

func TestTranslateSoftFail(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"provider 500", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"malformed payload", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
		{"missing translations", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"translations":[]}}`))
		}},
		{"blank translation", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"translations":[{"translatedText":""}]}}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(t, tt.handler)
			if got := tr.Translate(context.Background(), "original text"); got != "original text" {
				t.Errorf("Translate = %q, want original input back", got)
			}
		})
	}
}

func TestTranslateUnreachableProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := httpclient.NewRestyClient(time.Second)
	tr := New(client, "k", logger.NopLogger{}, WithEndpoint(server.URL))

	if got := tr.Translate(context.Background(), "untouched"); got != "untouched" {
		t.Errorf("Translate = %q, want original input back", got)
	}
}

func TestTranslateConcurrentUse(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"譯文"}]}}`))
	})

	done := make(chan struct{})
	for range 10 {
		go func() {
			defer func() { done <- struct{}{} }()
			if got := tr.Translate(context.Background(), "text"); got != "譯文" {
				t.Errorf("Translate = %q, want %q", got, "譯文")
			}
		}()
	}
	for range 10 {
		<-done
	}
}
