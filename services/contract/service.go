package contract

import (
	"errors"

	contractModel "freight-posting/models/contract"

	"gorm.io/gorm"
)

var ErrTemplateNotFound = errors.New("contract template not found")

// Service serves the standard contract templates users must accept.
type Service struct {
	DB *gorm.DB
}

// NewService creates a new contract template service
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// LatestByType returns the newest template version for a contract type.
func (s *Service) LatestByType(contractType contractModel.ContractType) (*contractModel.ContractTemplate, error) {
	var template contractModel.ContractTemplate
	err := s.DB.Where("type = ?", contractType).
		Order("version DESC").
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// LatestProviderTemplate is the template shown during post activation.
func (s *Service) LatestProviderTemplate() (*contractModel.ContractTemplate, error) {
	return s.LatestByType(contractModel.ContractTypeProvider)
}
