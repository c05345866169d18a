package service

import (
	"go.uber.org/zap"

	"ampa-activity/config"
	"ampa-activity/internal/repository"
	"ampa-activity/pkg/jwt"
	"ampa-activity/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth           AuthService
	Language       LanguageService
	ActivityType   ActivityTypeService
	Member         MemberService
	Product        ProductService
	Roster         RosterService
	SchoolCalendar SchoolCalendarService
	ActivityEvent  ActivityEventService
	Report         ReportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时降级运行）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:           NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Language:       NewLanguageService(repo, logger),
		ActivityType:   NewActivityTypeService(repo, logger),
		Member:         NewMemberService(repo, logger),
		Product:        NewProductService(repo, logger),
		Roster:         NewRosterService(repo, logger),
		SchoolCalendar: NewSchoolCalendarService(cfg, repo, logger),
		ActivityEvent:  NewActivityEventService(cfg, repo, logger),
		Report:         NewReportService(cfg, repo, logger),
	}
}
