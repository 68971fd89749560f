// internal/handlers/glossary.go
package handlers

import (
	"net/http"

	"army-list-builder-backend/internal/glossary"
	"army-list-builder-backend/internal/models"

	"github.com/gin-gonic/gin"
)

type GlossaryHandler struct {
	glossary    *glossary.Glossary
	defaultLang string
}

func NewGlossaryHandler(g *glossary.Glossary, defaultLang string) *GlossaryHandler {
	return &GlossaryHandler{
		glossary:    g,
		defaultLang: defaultLang,
	}
}

// GetKeywords возвращает все ключевые слова с описаниями на языке запроса
func (h *GlossaryHandler) GetKeywords(c *gin.Context) {
	lang := requestLang(c, h.glossary, h.defaultLang)

	entries := h.glossary.Entries(lang)
	response := models.KeywordsListResponse{
		Lang:     lang.String(),
		Keywords: make([]models.KeywordResponse, 0, len(entries)),
	}
	for _, e := range entries {
		response.Keywords = append(response.Keywords, models.KeywordResponse{
			Name:        e.Name,
			Description: e.Description,
			Found:       true,
		})
	}

	c.JSON(http.StatusOK, response)
}

// GetKeyword возвращает описание ключевого слова. Отсутствие описания не ошибка
func (h *GlossaryHandler) GetKeyword(c *gin.Context) {
	name := c.Param("name")
	lang := requestLang(c, h.glossary, h.defaultLang)

	entry, found := h.glossary.Lookup(name, lang)
	response := models.KeywordResponse{
		Name:        name,
		Description: name,
		Found:       found,
	}
	if found {
		response.Description = entry.Description
	}

	c.JSON(http.StatusOK, response)
}
