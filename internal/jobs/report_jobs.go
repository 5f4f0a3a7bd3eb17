package jobs

import (
	"context"
	"strings"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/logger"

	"github.com/shopspring/decimal"
)

// LogTransactionReport writes the rental transactions report and its revenue
// total to the log
func (jr *JobRunner) LogTransactionReport() {
	jr.runWithRecovery("LogTransactionReport", func() {
		ctx := context.Background()

		report, err := jr.agency.GenerateReport(ctx)
		if err != nil {
			logger.Error("Failed to generate transaction report", "error", err)
			return
		}
		log, err := jr.agency.ListTransactions(ctx)
		if err != nil {
			logger.Error("Failed to load transaction log", "error", err)
			return
		}

		revenue := decimal.Zero
		for _, tx := range log {
			revenue = revenue.Add(tx.TotalCost)
		}

		logger.Info("Transaction report",
			"transactions", len(log),
			"revenue", revenue.StringFixed(2))

		for _, line := range strings.Split(strings.TrimSuffix(report, "\n"), "\n") {
			logger.Debug(line)
		}
	})
}

// LogFleetAvailability logs available and rented counts per category
func (jr *JobRunner) LogFleetAvailability() {
	jr.runWithRecovery("LogFleetAvailability", func() {
		fleet, err := jr.agency.ListFleet(context.Background())
		if err != nil {
			logger.Error("Failed to list fleet", "error", err)
			return
		}

		summary := summarizeFleet(fleet)
		for _, category := range []domain.VehicleCategory{
			domain.VehicleCategoryStandard,
			domain.VehicleCategoryTwoWheel,
			domain.VehicleCategoryCargo,
		} {
			counts := summary[category]
			logger.Info("Fleet availability",
				"category", category,
				"available", counts.Available,
				"rented", counts.Rented)
		}
	})
}

type availabilityCounts struct {
	Available int
	Rented    int
}

func summarizeFleet(fleet []domain.Vehicle) map[domain.VehicleCategory]availabilityCounts {
	summary := make(map[domain.VehicleCategory]availabilityCounts)
	for i := range fleet {
		counts := summary[fleet[i].Category()]
		if fleet[i].IsAvailableForRental() {
			counts.Available++
		} else {
			counts.Rented++
		}
		summary[fleet[i].Category()] = counts
	}
	return summary
}
