package server

import (
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/tsubame-dev/store-api/repository"
)

// RevenueSummary aggregates the monthly rollups.
type RevenueSummary struct {
	TotalRevenue   int     `json:"total_revenue"`
	AverageRevenue float64 `json:"average_revenue"`
	MaxRevenue     int     `json:"max_revenue"`
	MinRevenue     int     `json:"min_revenue"`
	MonthsCount    int     `json:"months_count"`
}

// handleRevenueSummary walks every revenue row in memory. The table
// holds one row per month, so there is nothing to win by pushing the
// aggregate into SQL, and the empty-table shape stays all zeros.
func (s *Server) handleRevenueSummary(c *fiber.Ctx) error {
	rows, err := s.repos.Revenue().List(c.UserContext(), repository.ListCriteria{
		Limit: math.MaxInt32,
	})
	if err != nil {
		return err
	}

	summary := RevenueSummary{MonthsCount: len(rows)}
	if len(rows) == 0 {
		return c.JSON(summary)
	}

	summary.MinRevenue = rows[0].Total
	for _, row := range rows {
		summary.TotalRevenue += row.Total
		if row.Total > summary.MaxRevenue {
			summary.MaxRevenue = row.Total
		}
		if row.Total < summary.MinRevenue {
			summary.MinRevenue = row.Total
		}
	}
	summary.AverageRevenue = float64(summary.TotalRevenue) / float64(summary.MonthsCount)

	return c.JSON(summary)
}
