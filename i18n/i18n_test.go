package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("fr-FR,pt-BR;q=0.8") != "pt" {
		t.Fatalf("expected pt from second tag")
	}
	if DetectLanguage("") != "pt" {
		t.Fatalf("expected default pt")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("pt", "required") != "Obrigatório" {
		t.Fatalf("expected Obrigatório")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to pt translation
	if T("es", "missing_dimensions") != T("pt", "missing_dimensions") {
		t.Fatalf("expected pt fallback for es lang")
	}
}

func TestLangContext(t *testing.T) {
	if LangFrom(context.Background()) != DefaultLang {
		t.Fatalf("expected default language")
	}
	if LangFrom(WithLang(context.Background(), "en")) != "en" {
		t.Fatalf("expected en from context")
	}
	if !Supported("en") || Supported("es") {
		t.Fatalf("unexpected Supported result")
	}
}

func TestMiddleware(t *testing.T) {
	var got string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LangFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got != "en" || rr.Header().Get("Content-Language") != "en" {
		t.Fatalf("expected en from header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/?lang=pt", nil)
	req.Header.Set("Accept-Language", "en-US")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "pt" {
		t.Fatalf("expected query to win, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/?lang=xx", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != DefaultLang {
		t.Fatalf("expected default for unsupported lang, got %q", got)
	}
}
