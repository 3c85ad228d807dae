package post

import (
	"errors"
	"fmt"

	"freight-posting/logger"
	parcelModel "freight-posting/models/parcel"
	postModel "freight-posting/models/post"
	postTypes "freight-posting/types/post"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrPackageNotFound   = errors.New("package not found or not available")
)

// Service owns freight post persistence and the status state machine.
type Service struct {
	DB *gorm.DB
}

// NewService creates a new post service
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Create persists a new freight post carrying its initial status. The caller
// decides the initial status (the activation workflow creates posts already
// at AWAITING_SIGNATURE); the DRAFT->initial transition is recorded as the
// first status event.
func (s *Service) Create(req *postTypes.PostCreateRequest, providerID uint, createdBy string) (*postModel.FreightPost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !postModel.PostStatusDraft.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: cannot create a post at status %s", ErrInvalidTransition, req.Status)
	}

	route := req.ShippingRoute
	newPost := postModel.FreightPost{
		ID:           uuid.NewString(),
		ProviderID:   providerID,
		Title:        req.Title,
		Description:  req.Description,
		OfferedPrice: req.OfferedPrice,
		Status:       req.Status,
		ShippingRoute: postModel.ShippingRoute{
			StartLocation: postModel.Location{
				Address:   route.StartLocation.Address,
				Latitude:  route.StartLocation.Latitude,
				Longitude: route.StartLocation.Longitude,
			},
			EndLocation: postModel.Location{
				Address:   route.EndLocation.Address,
				Latitude:  route.EndLocation.Latitude,
				Longitude: route.EndLocation.Longitude,
			},
			ExpectedPickupDate:   route.ExpectedPickupDate,
			ExpectedDeliveryDate: route.ExpectedDeliveryDate,
			StartTimeToPickup:    route.StartTimeToPickup,
			EndTimeToPickup:      route.EndTimeToPickup,
			StartTimeToDelivery:  route.StartTimeToDelivery,
			EndTimeToDelivery:    route.EndTimeToDelivery,
		},
		SenderContact:   contactFromInput(req.SenderContact, route.StartLocation.Address),
		ReceiverContact: contactFromInput(req.ReceiverContact, route.EndLocation.Address),
		CreatedBy:       createdBy,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// every referenced package must exist, belong to the provider and
		// still be unattached
		var count int64
		if err := tx.Model(&parcelModel.Package{}).
			Where("id IN ? AND provider_id = ? AND status = ?", req.PackageIDs, providerID, parcelModel.PackageStatusPending).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(req.PackageIDs)) {
			return ErrPackageNotFound
		}

		if err := tx.Create(&newPost).Error; err != nil {
			return err
		}

		for _, pkgID := range req.PackageIDs {
			link := postModel.PostPackage{PostID: newPost.ID, PackageID: pkgID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&parcelModel.Package{}).
			Where("id IN ?", req.PackageIDs).
			Update("status", parcelModel.PackageStatusPosted).Error; err != nil {
			return err
		}

		event := postModel.PostStatusEvent{
			PostID:     newPost.ID,
			FromStatus: postModel.PostStatusDraft,
			ToStatus:   newPost.Status,
			CreatedBy:  createdBy,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		logger.Error("Failed to create freight post", err)
		return nil, err
	}

	logger.Success(fmt.Sprintf("Freight post created with ID: %s at status %s", newPost.ID, newPost.Status))
	return &newPost, nil
}

// UpdateStatus moves a post to the next lifecycle state. Re-applying the
// current status is a successful no-op so the activation workflow can safely
// retry the update after a payment.
func (s *Service) UpdateStatus(postID string, next postModel.PostStatus, updatedBy string) (*postModel.FreightPost, error) {
	var current postModel.FreightPost
	if err := s.DB.Preload("Packages").First(&current, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if current.Status == next {
		return &current, nil
	}

	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&postModel.FreightPost{}).
			Where("id = ?", postID).
			Updates(map[string]interface{}{"status": next, "updated_by": updatedBy}).Error; err != nil {
			return err
		}

		event := postModel.PostStatusEvent{
			PostID:     postID,
			FromStatus: current.Status,
			ToStatus:   next,
			CreatedBy:  updatedBy,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to update post %s status to %s", postID, next), err)
		return nil, err
	}

	current.Status = next
	logger.Success(fmt.Sprintf("Post %s moved to status %s", postID, next))
	return &current, nil
}

// GetByID loads a post with its package links.
func (s *Service) GetByID(postID string) (*postModel.FreightPost, error) {
	var found postModel.FreightPost
	if err := s.DB.Preload("Packages").First(&found, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &found, nil
}

// ListPendingPackages returns the provider's packages still free to attach.
func (s *Service) ListPendingPackages(providerID uint) ([]parcelModel.Package, error) {
	var packages []parcelModel.Package
	err := s.DB.
		Where("provider_id = ? AND status = ?", providerID, parcelModel.PackageStatusPending).
		Order("created_at DESC").
		Find(&packages).Error
	return packages, err
}

func contactFromInput(in postTypes.ContactInput, routeAddress string) postModel.Contact {
	contact := postModel.Contact{
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Note:        in.Note,
		Address:     in.Address,
	}
	// contact address follows the route endpoint unless explicitly set
	if contact.Address == nil && routeAddress != "" {
		addr := routeAddress
		contact.Address = &addr
	}
	return contact
}
