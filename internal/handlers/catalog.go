// internal/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"

	"army-list-builder-backend/internal/catalog"
	"army-list-builder-backend/internal/glossary"
	"army-list-builder-backend/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type CatalogHandler struct {
	catalog     *catalog.Catalog
	glossary    *glossary.Glossary
	defaultLang string
}

func NewCatalogHandler(cat *catalog.Catalog, g *glossary.Glossary, defaultLang string) *CatalogHandler {
	return &CatalogHandler{
		catalog:     cat,
		glossary:    g,
		defaultLang: defaultLang,
	}
}

// GetFactions возвращает список фракций
func (h *CatalogHandler) GetFactions(c *gin.Context) {
	lang := requestLang(c, h.glossary, h.defaultLang)

	factions := h.catalog.ListFactions()
	response := models.FactionsListResponse{Factions: make([]models.FactionResponse, 0, len(factions))}
	for _, f := range factions {
		response.Factions = append(response.Factions, h.factionResponse(f, lang))
	}

	c.JSON(http.StatusOK, response)
}

// GetFaction возвращает одну фракцию
func (h *CatalogHandler) GetFaction(c *gin.Context) {
	faction, err := h.catalog.GetFaction(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Faction not found"})
		return
	}

	c.JSON(http.StatusOK, h.factionResponse(faction, requestLang(c, h.glossary, h.defaultLang)))
}

// GetFactionUnits возвращает юниты фракции с фильтрами tournament, high_command, keyword
func (h *CatalogHandler) GetFactionUnits(c *gin.Context) {
	factionID := c.Param("id")
	filter := catalog.UnitFilter{
		TournamentOnly:  c.Query("tournament") == "true",
		HighCommandOnly: c.Query("high_command") == "true",
		Keyword:         c.Query("keyword"),
	}

	units, err := h.catalog.Filter(factionID, filter)
	if err != nil {
		if errors.Is(err, catalog.ErrFactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Faction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch units"})
		return
	}

	lang := requestLang(c, h.glossary, h.defaultLang)
	response := models.UnitsListResponse{FactionID: factionID, Units: make([]models.Unit, 0, len(units))}
	for _, u := range units {
		response.Units = append(response.Units, h.localizeUnit(u, lang))
	}

	c.JSON(http.StatusOK, response)
}

// GetUnit возвращает юнит по id
func (h *CatalogHandler) GetUnit(c *gin.Context) {
	unit, err := h.catalog.GetUnit(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}

	c.JSON(http.StatusOK, h.localizeUnit(unit, requestLang(c, h.glossary, h.defaultLang)))
}

func (h *CatalogHandler) factionResponse(f models.Faction, lang language.Tag) models.FactionResponse {
	units, _ := h.catalog.GetUnits(f.ID)
	return models.FactionResponse{
		ID:         f.ID,
		Name:       f.DisplayName(lang.String()),
		UnitsCount: len(units),
	}
}

// localizeUnit подставляет название на языке запроса и описания ключевых слов из глоссария
func (h *CatalogHandler) localizeUnit(u models.Unit, lang language.Tag) models.Unit {
	u.Name = u.DisplayName(lang.String())

	keywords := make([]models.Keyword, len(u.Keywords))
	for i, k := range u.Keywords {
		if k.Description == "" {
			k.Description = h.glossary.Describe(k.Name, lang)
		}
		keywords[i] = k
	}
	u.Keywords = keywords
	return u
}
