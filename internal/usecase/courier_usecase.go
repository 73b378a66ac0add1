package usecase

import (
	"errors"

	"mixmall_backend/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CourierUseCase = (*courierUseCase)(nil)

type courierUseCase struct {
	courierRepo domain.CourierRepository
	log         *logrus.Logger
}

func NewCourierUseCase(repo domain.CourierRepository, logger *logrus.Logger) domain.CourierUseCase {
	return &courierUseCase{
		courierRepo: repo,
		log:         logger,
	}
}

func (uc *courierUseCase) CreateCourier(courier *domain.Courier) (*domain.Courier, error) {
	if courier.Name == "" {
		uc.log.Warn("Use Case: Attempted to create courier with empty name")
		return nil, errors.New("courier name cannot be empty")
	}
	if courier.Phone == "" {
		return nil, errors.New("courier phone cannot be empty")
	}

	created, err := uc.courierRepo.CreateCourier(courier)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create courier '%s': %v", courier.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Courier '%s' created successfully with ID %d", created.Name, created.ID)
	return created, nil
}

func (uc *courierUseCase) UpdateCourier(courier *domain.Courier) (*domain.Courier, error) {
	if courier.ID <= 0 {
		return nil, errors.New("invalid courier ID for update")
	}
	if courier.Name == "" {
		return nil, errors.New("courier name cannot be empty")
	}
	if courier.Phone == "" {
		return nil, errors.New("courier phone cannot be empty")
	}

	updated, err := uc.courierRepo.UpdateCourier(courier)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update courier ID %d: %v", courier.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Courier ID %d updated successfully", updated.ID)
	return updated, nil
}

func (uc *courierUseCase) DeleteCourier(id int64) error {
	if id <= 0 {
		return errors.New("invalid courier ID for deletion")
	}
	if err := uc.courierRepo.DeleteCourier(id); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete courier ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Courier ID %d deleted successfully", id)
	return nil
}

func (uc *courierUseCase) ListCouriers() ([]domain.Courier, error) {
	couriers, err := uc.courierRepo.ListCouriers()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list couriers: %v", err)
		return nil, err
	}
	return couriers, nil
}
