package controllers

import (
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct {
	health *services.HealthService
}

func NewHealthController(service *services.HealthService) *HealthController {
	return &HealthController{health: service}
}

// GetHealth reports overall service health with dependency probes
func (hc *HealthController) GetHealth(c *fiber.Ctx) error {
	report := hc.health.GetHealthReport()
	return c.Status(hc.health.HTTPStatusForOverall(report.Status)).JSON(report)
}
