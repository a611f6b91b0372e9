package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/services"
)

// Services bundles everything the router needs
type Services struct {
	Auth          *services.AuthService
	Drops         *services.DropService
	Bins          *services.BinService
	Approvals     *services.ApprovalService
	Treasury      *services.TreasuryService
	Wallets       *services.WalletService
	Notifications *services.NotificationService
	QR            *services.QRService
}

// NewRouter builds the HTTP routing table
func NewRouter(svc Services, hub *Hub, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	auth := AuthMiddleware(svc.Auth)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", Register(svc.Auth, log))
		r.Post("/auth/login", Login(svc.Auth, log))

		r.Get("/bins", ListBins(svc.Bins, log))
		r.Get("/bins/qr/generate", GenerateBinQR(svc.Bins, svc.QR, log))
		r.Get("/bins/qr/{qrCode}", GetBinByQRCode(svc.Bins, log))

		// Authenticated user routes
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Post("/auth/wallet", LinkWallet(svc.Wallets, hub, log))
			r.Post("/drops/submit", SubmitDrop(svc.Drops, hub, log))
			r.Get("/drops", GetMyDrops(svc.Drops, log))
			r.Get("/notifications", ListNotifications(svc.Notifications, log))
			r.Put("/notifications/{id}/read", MarkNotificationRead(svc.Notifications, log))
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth)
			r.Use(RequireAdmin)

			r.Get("/bins", AdminListBins(svc.Bins, log))
			r.Post("/bins", AdminCreateBin(svc.Bins, log))
			r.Put("/bins/{id}", AdminUpdateBin(svc.Bins, log))

			r.Get("/drops", AdminListDrops(svc.Drops, log))
			r.Put("/drops", AdminReviewDrop(svc.Approvals, hub, log))
			r.Get("/submissions/pending", AdminPendingSubmissions(svc.Drops, log))
			r.Post("/submissions/batch-approve", AdminBatchApprove(svc.Approvals, hub, log))

			r.Get("/treasury/status", AdminTreasuryStatus(svc.Treasury, log))
			r.Post("/treasury/fund", AdminFundTreasury(svc.Treasury, log))
		})
	})

	r.Get("/ws", ServeWS(hub, svc.Auth))

	return r
}
