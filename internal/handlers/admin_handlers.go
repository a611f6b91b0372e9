package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/models"
	"github.com/ecodrop/ecodrop-api/internal/services"
)

// AdminListBins handles listing every bin, including inactive ones
func AdminListBins(binService *services.BinService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := binService.List(parseBinParams(r))
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, response)
	}
}

// AdminCreateBin handles registering a new collection bin
func AdminCreateBin(binService *services.BinService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateBinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		bin, err := binService.Create(req)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusCreated, bin)
	}
}

// AdminUpdateBin handles partial bin updates
func AdminUpdateBin(binService *services.BinService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		binID := chi.URLParam(r, "id")
		if binID == "" {
			respondError(w, http.StatusBadRequest, "bin ID is required")
			return
		}

		var req models.UpdateBinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		bin, err := binService.Update(binID, req)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, bin)
	}
}

// AdminListDrops handles listing drops with arbitrary filters
func AdminListDrops(dropService *services.DropService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := parseDropParams(r)
		params.UserID = r.URL.Query().Get("user_id")

		response, err := dropService.List(params)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, response)
	}
}

// AdminPendingSubmissions handles listing drops awaiting review
func AdminPendingSubmissions(dropService *services.DropService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drops, err := dropService.ListPending()
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, map[string]interface{}{
			"drops":       drops,
			"total_count": len(drops),
		})
	}
}

// AdminReviewDrop handles a single approve/reject decision
func AdminReviewDrop(approvalService *services.ApprovalService, hub *Hub, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ReviewDropRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		drop, err := approvalService.Review(req)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		hub.BroadcastEvent(EventDropReviewed, drop)

		respondSuccess(w, http.StatusOK, drop)
	}
}

// AdminBatchApprove handles approving multiple drops in one run
func AdminBatchApprove(approvalService *services.ApprovalService, hub *Hub, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, ok := UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req models.BatchApproveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := approvalService.BatchApprove(adminID, req)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		hub.BroadcastEvent(EventBatchProcessed, result)

		respondSuccess(w, http.StatusOK, result)
	}
}

// AdminTreasuryStatus handles the treasury overview
func AdminTreasuryStatus(treasuryService *services.TreasuryService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := treasuryService.Status()
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, status)
	}
}

// AdminFundTreasury handles recording a treasury funding transfer
func AdminFundTreasury(treasuryService *services.TreasuryService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.FundTreasuryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		txn, err := treasuryService.Fund(req)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusCreated, txn)
	}
}
