package handler

import "tipsy/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Tip          *TipHandler
	Review       *ReviewHandler
	Restaurant   *RestaurantHandler
	Staff        *StaffHandler
	Worker       *WorkerHandler
	User         *UserHandler
	Notification *NotificationHandler
	Feature      *FeatureHandler
	Payment      *PaymentHandler
	Export       *ExportHandler
}

// NewHandler wires handlers over svc.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Tip:          NewTipHandler(svc.Tip),
		Review:       NewReviewHandler(svc.Review),
		Restaurant:   NewRestaurantHandler(svc.Restaurant),
		Staff:        NewStaffHandler(svc.Staff),
		Worker:       NewWorkerHandler(svc.Worker),
		User:         NewUserHandler(svc.User),
		Notification: NewNotificationHandler(svc.Notification),
		Feature:      NewFeatureHandler(svc.Feature),
		Payment:      NewPaymentHandler(svc.Payment),
		Export:       NewExportHandler(svc.Export),
	}
}
