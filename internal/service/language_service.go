package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ampa-activity/internal/dto"
	"ampa-activity/internal/model"
	"ampa-activity/internal/repository"
	"ampa-activity/pkg/datefmt"
	pkgerrors "ampa-activity/pkg/errors"
)

// FallbackLang 未指定或找不到语言时使用的语言代码
const FallbackLang = "en_US"

// ── 语言模块业务错误 ──

var (
	ErrLanguageNotFound   = errors.New("语言不存在")
	ErrLanguageCodeExists = errors.New("语言代码已存在")
)

// LanguageService 语言业务接口
type LanguageService interface {
	Create(ctx context.Context, req *dto.LanguageRequest, callerID string) (*dto.LanguageResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LanguageResponse, error)
	List(ctx context.Context) ([]dto.LanguageResponse, error)
	Update(ctx context.Context, id string, req *dto.LanguageRequest, callerID string) (*dto.LanguageResponse, error)
	Delete(ctx context.Context, id string) error
	// DateFormat 返回语言对应的日期格式（回退 en_US，再回退内置格式）
	DateFormat(ctx context.Context, code string) string
}

type languageService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLanguageService 创建 LanguageService 实例
func NewLanguageService(repo *repository.Repository, logger *zap.Logger) LanguageService {
	return &languageService{repo: repo, logger: logger}
}

func (s *languageService) Create(ctx context.Context, req *dto.LanguageRequest, callerID string) (*dto.LanguageResponse, error) {
	if _, err := s.repo.Language.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrLanguageCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询语言失败", zap.Error(err))
		return nil, err
	}

	lang := &model.Language{
		Code:       req.Code,
		Name:       req.Name,
		DateFormat: req.DateFormat,
	}
	lang.CreatedBy = &callerID
	lang.UpdatedBy = &callerID

	if err := s.repo.Language.Create(ctx, lang); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrLanguageCodeExists
		}
		s.logger.Error("创建语言失败", zap.Error(err))
		return nil, err
	}
	return toLanguageResponse(lang), nil
}

func (s *languageService) GetByID(ctx context.Context, id string) (*dto.LanguageResponse, error) {
	lang, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLanguageResponse(lang), nil
}

func (s *languageService) List(ctx context.Context) ([]dto.LanguageResponse, error) {
	langs, err := s.repo.Language.List(ctx)
	if err != nil {
		s.logger.Error("列出语言失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.LanguageResponse, 0, len(langs))
	for i := range langs {
		result = append(result, *toLanguageResponse(&langs[i]))
	}
	return result, nil
}

func (s *languageService) Update(ctx context.Context, id string, req *dto.LanguageRequest, callerID string) (*dto.LanguageResponse, error) {
	lang, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != lang.Code {
		if existing, err := s.repo.Language.GetByCode(ctx, req.Code); err == nil && existing.LanguageID != id {
			return nil, ErrLanguageCodeExists
		}
	}

	lang.Code = req.Code
	lang.Name = req.Name
	lang.DateFormat = req.DateFormat
	lang.UpdatedBy = &callerID

	if err := s.repo.Language.Update(ctx, lang); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrLanguageCodeExists
		}
		s.logger.Error("更新语言失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toLanguageResponse(lang), nil
}

func (s *languageService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Language.Delete(ctx, id); err != nil {
		s.logger.Error("删除语言失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *languageService) DateFormat(ctx context.Context, code string) string {
	return resolveDateFormat(ctx, s.repo, s.logger, code)
}

// ── 内部辅助方法 ──

func (s *languageService) get(ctx context.Context, id string) (*model.Language, error) {
	lang, err := s.repo.Language.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLanguageNotFound
		}
		s.logger.Error("查询语言失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return lang, nil
}

// resolveDateFormat 依次尝试 code、en_US，最后使用内置 %m/%d/%Y
func resolveDateFormat(ctx context.Context, repo *repository.Repository, logger *zap.Logger, code string) string {
	for _, c := range []string{code, FallbackLang} {
		if c == "" {
			continue
		}
		lang, err := repo.Language.GetByCode(ctx, c)
		if err == nil && lang.DateFormat != "" {
			return lang.DateFormat
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("查询语言日期格式失败", zap.String("lang", c), zap.Error(err))
		}
	}
	return datefmt.DefaultPattern
}

func toLanguageResponse(lang *model.Language) *dto.LanguageResponse {
	return &dto.LanguageResponse{
		ID:         lang.LanguageID,
		Code:       lang.Code,
		Name:       lang.Name,
		DateFormat: lang.DateFormat,
	}
}
