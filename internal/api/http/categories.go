package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/grammaire/internal/bank"
)

// GET /categories
func ListCategoriesHandler(cat *bank.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cat.List())
	}
}

// GET /categories/{categoryID}  (answers redacted)
func GetCategoryHandler(cat *bank.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := cat.Get(chi.URLParam(r, "categoryID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, bank.RedactCategory(c))
	}
}
