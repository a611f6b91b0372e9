package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/models"
	"github.com/ecodrop/ecodrop-api/internal/services"
)

// maxPhotoBytes caps uploaded photo size at 10 MiB
const maxPhotoBytes = 10 << 20

// SubmitDrop handles a multipart drop submission: bin QR code, item type,
// optional description, weight estimate and photo
func SubmitDrop(dropService *services.DropService, hub *Hub, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			respondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		input := services.SubmitDropInput{
			UserID:      userID,
			BinQRCode:   r.FormValue("binId"),
			DeviceTier:  models.DeviceTier(r.FormValue("itemType")),
			Description: r.FormValue("description"),
		}

		if weightStr := r.FormValue("estimatedWeightKg"); weightStr != "" {
			weight, err := strconv.ParseFloat(weightStr, 64)
			if err != nil || weight < 0 {
				respondError(w, http.StatusBadRequest, "invalid estimatedWeightKg")
				return
			}
			input.EstimatedWeightKg = &weight
		}

		photoURL, err := readPhoto(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		input.PhotoURL = photoURL

		drop, err := dropService.Submit(input)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		hub.BroadcastEvent(EventDropSubmitted, drop)

		respondSuccess(w, http.StatusCreated, drop)
	}
}

// readPhoto extracts the uploaded photo as a base64 data URL. Photos are
// stored inline for now rather than in object storage. Oversized uploads are
// rejected outright; truncating one would store a corrupt image.
func readPhoto(r *http.Request) (string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", fmt.Errorf("photo is required")
		}
		return "", fmt.Errorf("invalid photo upload")
	}
	defer file.Close()

	if header.Size > maxPhotoBytes {
		return "", fmt.Errorf("photo of %d bytes exceeds the %d MiB limit", header.Size, maxPhotoBytes>>20)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read photo")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

// GetMyDrops handles listing the authenticated user's drops
func GetMyDrops(dropService *services.DropService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		params := parseDropParams(r)
		params.UserID = userID

		response, err := dropService.List(params)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, response)
	}
}

// Helper function to parse drop query parameters
func parseDropParams(r *http.Request) models.DropParams {
	params := models.DropParams{}

	if status := r.URL.Query().Get("status"); status != "" {
		params.Status = models.DropStatus(status)
	}
	if paymentStatus := r.URL.Query().Get("payment_status"); paymentStatus != "" {
		params.PaymentStatus = models.PaymentStatus(paymentStatus)
	}
	params.BinID = r.URL.Query().Get("bin_id")

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
