package usecase

import (
	"fmt"

	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.StatsUseCase = (*statsUseCase)(nil)

type statsUseCase struct {
	statsRepo domain.StatsRepository
	log       *logrus.Logger
}

func NewStatsUseCase(repo domain.StatsRepository, logger *logrus.Logger) domain.StatsUseCase {
	return &statsUseCase{
		statsRepo: repo,
		log:       logger,
	}
}

func (uc *statsUseCase) GetStatistics() (*domain.Statistics, error) {
	counts, err := uc.statsRepo.CountOrdersByStatus()
	if err != nil {
		uc.log.Errorf("Use Case: Failed to count orders by status: %v", err)
		return nil, fmt.Errorf("could not compute statistics: %w", err)
	}

	revenue, err := uc.statsRepo.DeliveredRevenue()
	if err != nil {
		uc.log.Errorf("Use Case: Failed to compute revenue: %v", err)
		return nil, fmt.Errorf("could not compute statistics: %w", err)
	}

	topProducts, err := uc.statsRepo.TopProducts(10)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to compute top products: %v", err)
		return nil, fmt.Errorf("could not compute statistics: %w", err)
	}

	return &domain.Statistics{
		OrdersByStatus: counts,
		TotalRevenue:   revenue,
		TopProducts:    topProducts,
	}, nil
}
