// Package i18n translates the error and status codes returned by the API.
package i18n

import (
	"context"
	"net/http"
	"strings"
)

const DefaultLang = "pt"

type langKey struct{}

var catalog = map[string]map[string]string{
	"pt": {
		"required":             "Obrigatório",
		"must_be_positive":     "Deve ser maior que zero",
		"must_not_be_negative": "Não pode ser negativo",
		"out_of_range":         "Fora do intervalo permitido",
		"invalid_email":        "E-mail inválido",
		"too_short":            "Muito curto",
		"unauthorized":         "Não autenticado",
		"not_found":            "Registro não encontrado",
		"invalid_json":         "JSON inválido",
		"invalid_form":         "Formulário inválido",
		"invalid_id":           "Identificador inválido",
		"validation_failed":    "Falha de validação",
		"invalid_credentials":  "E-mail ou senha incorretos",
		"email_taken":          "E-mail já cadastrado",
		"code_already_exists":  "Código já cadastrado",
		"invalid_quantity":     "A quantidade deve ser maior que zero",
		"invalid_unit_price":   "O preço unitário não pode ser negativo",
		"missing_dimensions":   "Informe largura e altura para produtos vendidos por m²",
		"invalid_discount":     "O desconto deve estar entre 0 e 100",
		"invalid_amount":       "Valor numérico inválido",
		"invalid_unit":         "Unidade de medida inválida",
		"invalid_status":       "Transição de status inválida",
		"order_locked":         "O pedido não pode mais ser alterado",
		"not_a_quote":          "Somente orçamentos podem ser convertidos",
		"client_not_found":     "Cliente não encontrado",
		"product_not_found":    "Produto não encontrado",
		"product_inactive":     "Produto inativo",
		"item_not_found":       "Item não encontrado",
		"invalid_kind":         "Tipo de pedido inválido",
		"wrong_password":       "Senha atual incorreta",
		"mismatch":             "Os valores não conferem",
		"internal_error":       "Erro interno",
	},
	"en": {
		"required":             "Required",
		"must_be_positive":     "Must be greater than zero",
		"must_not_be_negative": "Must not be negative",
		"out_of_range":         "Out of range",
		"invalid_email":        "Invalid email",
		"too_short":            "Too short",
		"unauthorized":         "Not authenticated",
		"not_found":            "Not found",
		"invalid_json":         "Invalid JSON",
		"invalid_form":         "Invalid form",
		"invalid_id":           "Invalid identifier",
		"validation_failed":    "Validation failed",
		"invalid_credentials":  "Wrong email or password",
		"email_taken":          "Email already registered",
		"code_already_exists":  "Code already exists",
		"invalid_quantity":     "Quantity must be greater than zero",
		"invalid_unit_price":   "Unit price must not be negative",
		"missing_dimensions":   "Width and height are required for area priced products",
		"invalid_discount":     "Discount must be between 0 and 100",
		"invalid_amount":       "Invalid numeric value",
		"invalid_unit":         "Invalid unit of measure",
		"invalid_status":       "Invalid status transition",
		"order_locked":         "The order can no longer be changed",
		"not_a_quote":          "Only quotes can be converted",
		"client_not_found":     "Client not found",
		"product_not_found":    "Product not found",
		"product_inactive":     "Product is inactive",
		"item_not_found":       "Item not found",
		"invalid_kind":         "Invalid order kind",
		"wrong_password":       "Current password is wrong",
		"mismatch":             "Values do not match",
		"internal_error":       "Internal error",
	},
}

// T returns the translation of code in lang, falling back to the default
// language and then to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if _, ok := catalog[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFrom returns the language stored in ctx, or DefaultLang.
func LangFrom(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}

// Middleware stores the request language in the context. A supported "lang"
// query parameter wins over Accept-Language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		if !Supported(lang) {
			lang = DetectLanguage(r.Header.Get("Accept-Language"))
		}
		w.Header().Set("Content-Language", lang)
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
	})
}
