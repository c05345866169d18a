package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/model"
	"ampa-activity/internal/repository"
)

// ── 产品模块业务错误 ──

var (
	ErrProductNotFound = errors.New("产品不存在")
)

// ProductService 产品业务接口
type ProductService interface {
	Create(ctx context.Context, req *dto.ProductRequest, callerID string) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProductResponse, error)
	List(ctx context.Context, req *dto.ProductListRequest) ([]dto.ProductResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.ProductRequest, callerID string) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProductService 创建 ProductService 实例
func NewProductService(repo *repository.Repository, logger *zap.Logger) ProductService {
	return &productService{repo: repo, logger: logger}
}

func (s *productService) Create(ctx context.Context, req *dto.ProductRequest, callerID string) (*dto.ProductResponse, error) {
	product := &model.Product{
		Name:      req.Name,
		ListPrice: req.ListPrice,
	}
	product.CreatedBy = &callerID
	product.UpdatedBy = &callerID

	if err := s.repo.Product.Create(ctx, product); err != nil {
		s.logger.Error("创建产品失败", zap.Error(err))
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *productService) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *productService) List(ctx context.Context, req *dto.ProductListRequest) ([]dto.ProductResponse, int64, error) {
	products, total, err := s.repo.Product.List(ctx, repository.ListFilter{
		Keyword: req.Keyword,
		Offset:  req.GetOffset(),
		Limit:   req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出产品失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, *toProductResponse(&products[i]))
	}
	return result, total, nil
}

func (s *productService) Update(ctx context.Context, id string, req *dto.ProductRequest, callerID string) (*dto.ProductResponse, error) {
	product, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = req.Name
	product.ListPrice = req.ListPrice
	product.UpdatedBy = &callerID

	if err := s.repo.Product.Update(ctx, product); err != nil {
		s.logger.Error("更新产品失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete 引用该产品的名单与明细行级联删除，随后重算受影响活动的人数
func (s *productService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		eventIDs, err := txRepo.EventPartner.EventIDsByProduct(ctx, id)
		if err != nil {
			return err
		}
		if err := txRepo.Product.Delete(ctx, id); err != nil {
			return err
		}
		return recountEvents(ctx, txRepo, eventIDs)
	})
	if err != nil {
		s.logger.Error("删除产品失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *productService) get(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.Product.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		s.logger.Error("查询产品失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return product, nil
}

func toProductResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ProductID,
		Name:      p.Name,
		ListPrice: p.ListPrice,
	}
}
