// internal/handlers/admin.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"army-list-builder-backend/internal/catalog"
	"army-list-builder-backend/internal/glossary"
	"army-list-builder-backend/internal/models"

	"github.com/gin-gonic/gin"
)

type Revalidator interface {
	RunOnce(ctx context.Context) (models.RunStats, error)
	Status() models.WorkerStatusResponse
}

type AdminHandler struct {
	catalog  *catalog.Catalog
	glossary *glossary.Glossary
	worker   Revalidator
}

func NewAdminHandler(cat *catalog.Catalog, g *glossary.Glossary, worker Revalidator) *AdminHandler {
	return &AdminHandler{
		catalog:  cat,
		glossary: g,
		worker:   worker,
	}
}

// CatalogAudit возвращает сводку по каталогу для страницы проверки юнитов
func (h *AdminHandler) CatalogAudit(c *gin.Context) {
	c.JSON(http.StatusOK, AuditCatalog(h.catalog, h.glossary))
}

// Revalidate запускает внеочередную перепроверку сохранённых списков
func (h *AdminHandler) Revalidate(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Minute)
	defer cancel()

	stats, err := h.worker.RunOnce(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Revalidation failed"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetWorkerStatus возвращает состояние worker'а перепроверки
func (h *AdminHandler) GetWorkerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.Status())
}

// AuditCatalog собирает сводку по фракциям: High Command, пары компаньонов,
// запрещённые на турнирах юниты и ключевые слова без описания в глоссарии
func AuditCatalog(cat *catalog.Catalog, g *glossary.Glossary) models.CatalogAuditResponse {
	response := models.CatalogAuditResponse{Units: cat.Len()}

	for _, f := range cat.ListFactions() {
		units, _ := cat.GetUnits(f.ID)
		audit := models.FactionAudit{
			ID:               f.ID,
			Name:             f.Name,
			Units:            len(units),
			HighCommandUnits: []string{},
			CompanionPairs:   []string{},
			TournamentBanned: []string{},
			MissingGlossary:  []string{},
		}

		missing := map[string]bool{}
		for _, u := range units {
			if u.HighCommand {
				audit.HighCommandUnits = append(audit.HighCommandUnits, u.ID)
			}
			if u.Companion != "" {
				audit.CompanionPairs = append(audit.CompanionPairs, u.ID+" -> "+u.Companion)
			}
			if !u.IsTournamentLegal() {
				audit.TournamentBanned = append(audit.TournamentBanned, u.ID)
			}
			for _, k := range u.Keywords {
				if _, ok := g.Lookup(k.Name, g.Base()); !ok && !missing[k.Name] {
					missing[k.Name] = true
					audit.MissingGlossary = append(audit.MissingGlossary, k.Name)
				}
			}
		}

		response.Factions = append(response.Factions, audit)
	}

	return response
}
