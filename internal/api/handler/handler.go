package handler

import (
	"ampa-activity/config"
	"ampa-activity/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth           *AuthHandler
	Language       *LanguageHandler
	ActivityType   *ActivityTypeHandler
	Member         *MemberHandler
	Product        *ProductHandler
	Roster         *RosterHandler
	SchoolCalendar *SchoolCalendarHandler
	ActivityEvent  *ActivityEventHandler
	Report         *ReportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth, cfg),
		Language:       NewLanguageHandler(svc.Language),
		ActivityType:   NewActivityTypeHandler(svc.ActivityType),
		Member:         NewMemberHandler(svc.Member),
		Product:        NewProductHandler(svc.Product),
		Roster:         NewRosterHandler(svc.Roster),
		SchoolCalendar: NewSchoolCalendarHandler(svc.SchoolCalendar),
		ActivityEvent:  NewActivityEventHandler(svc.ActivityEvent),
		Report:         NewReportHandler(svc.Report),
	}
}
