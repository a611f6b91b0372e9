package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/models"
	"github.com/ecodrop/ecodrop-api/internal/services"
)

// ListBins handles the public bin map view: active bins only
func ListBins(binService *services.BinService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := parseBinParams(r)
		params.ActiveOnly = true

		response, err := binService.List(params)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, response)
	}
}

// GetBinByQRCode handles bin metadata lookup after a QR scan
func GetBinByQRCode(binService *services.BinService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qrCode := chi.URLParam(r, "qrCode")
		if qrCode == "" {
			respondError(w, http.StatusBadRequest, "QR code is required")
			return
		}

		bin, err := binService.GetByQRCode(qrCode)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}
		if bin == nil {
			respondError(w, http.StatusNotFound, "bin not found")
			return
		}

		respondSuccess(w, http.StatusOK, bin)
	}
}

// GenerateBinQR handles QR code PNG generation for a bin
func GenerateBinQR(binService *services.BinService, qrService *services.QRService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qrCode := r.URL.Query().Get("qrCode")
		if qrCode == "" {
			respondError(w, http.StatusBadRequest, "qrCode parameter is required")
			return
		}

		bin, err := binService.GetByQRCode(qrCode)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}
		if bin == nil {
			respondError(w, http.StatusNotFound, "bin not found")
			return
		}

		png, err := qrService.GeneratePNG(bin)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.Write(png)
	}
}

// Helper function to parse bin query parameters
func parseBinParams(r *http.Request) models.BinParams {
	params := models.BinParams{}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			params.Page = page
		}
	}
	if pageSizeStr := r.URL.Query().Get("page_size"); pageSizeStr != "" {
		if pageSize, err := strconv.Atoi(pageSizeStr); err == nil && pageSize > 0 {
			params.PageSize = pageSize
		}
	}

	return params
}
