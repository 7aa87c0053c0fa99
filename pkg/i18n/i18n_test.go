package i18n_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emsvc/employee-service/pkg/i18n"
	"github.com/stretchr/testify/assert"
)

func TestLocalizer_T(t *testing.T) {
	en := i18n.NewLocalizer("en")
	ru := i18n.NewLocalizer("ru")

	assert.Equal(t, "validation failed", en.T("errors.validation_failed"))
	assert.Equal(t, "ошибка валидации", ru.T("errors.validation_failed"))
	assert.Equal(t, "must be at least 2 characters", en.T("validation.min", map[string]string{"param": "2"}))
}

func TestLocalizer_Fallbacks(t *testing.T) {
	assert.Equal(t, "en", i18n.NewLocalizer("fr").Locale())
	assert.Equal(t, "errors.missing_key", i18n.NewLocalizer("ru").T("errors.missing_key"))
	assert.Equal(t, "errors", i18n.T("errors"))
}

func TestParseAcceptLanguage(t *testing.T) {
	tests := map[string]string{
		"":                        "en",
		"ru":                      "ru",
		"ru-RU,ru;q=0.9,en;q=0.8": "ru",
		"de-DE, ru":               "ru",
		"fr, de":                  "en",
		"EN-us":                   "en",
	}
	for header, want := range tests {
		assert.Equal(t, want, i18n.ParseAcceptLanguage(header), "header %q", header)
	}
}

func TestContextLocale(t *testing.T) {
	assert.Equal(t, "en", i18n.GetLocaleFromContext(context.Background()))

	ctx := i18n.WithLocale(context.Background(), "ru")
	assert.Equal(t, "ru", i18n.GetLocaleFromContext(ctx))
	assert.Equal(t, "сотрудник", i18n.TFromContext(ctx, "resources.employee"))
}

func TestMiddleware(t *testing.T) {
	var seen string
	h := i18n.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = i18n.GetLocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "ru", seen)
	assert.Equal(t, "ru", rr.Header().Get("Content-Language"))
}
