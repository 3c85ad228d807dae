package workflow

import (
	contractModel "freight-posting/models/contract"
	postModel "freight-posting/models/post"
	walletModel "freight-posting/models/wallet"
	"freight-posting/services/routecheck"
	postTypes "freight-posting/types/post"
	walletTypes "freight-posting/types/wallet"
)

// PostGateway is the post collaborator; satisfied by services/post.Service.
type PostGateway interface {
	Create(req *postTypes.PostCreateRequest, providerID uint, createdBy string) (*postModel.FreightPost, error)
	UpdateStatus(postID string, next postModel.PostStatus, updatedBy string) (*postModel.FreightPost, error)
	GetByID(postID string) (*postModel.FreightPost, error)
}

// WalletGateway is the wallet collaborator; satisfied by services/wallet.Service.
type WalletGateway interface {
	GetByUserID(userID uint) (*walletModel.Wallet, error)
	CreatePayment(userID uint, req *walletTypes.PaymentRequest) (*walletModel.Transaction, error)
}

// ContractGateway is the contract template collaborator; satisfied by
// services/contract.Service.
type ContractGateway interface {
	LatestProviderTemplate() (*contractModel.ContractTemplate, error)
}

// RouteValidator is the debounced feasibility checker; satisfied by
// routecheck.Debounced.
type RouteValidator interface {
	Update(in routecheck.Input)
	Reset()
	Result() (routecheck.Result, bool)
	Calculating() bool
	Close()
}
