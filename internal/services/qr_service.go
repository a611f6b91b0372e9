package services

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

// qrSize is the pixel width of generated QR PNGs
const qrSize = 256

// QRService generates the QR codes printed on physical bins
type QRService struct {
	baseURL string
}

// NewQRService creates a new QRService
func NewQRService(baseURL string) *QRService {
	return &QRService{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BinURL builds the URL embedded in a bin's QR code:
// {baseUrl}/bin/{qrCode} with optional lat/lng/name query parameters
func (s *QRService) BinURL(bin *models.Bin) string {
	u := fmt.Sprintf("%s/bin/%s", s.baseURL, url.PathEscape(bin.QRCode))

	params := url.Values{}
	if bin.Latitude != 0 || bin.Longitude != 0 {
		params.Set("lat", fmt.Sprintf("%g", bin.Latitude))
		params.Set("lng", fmt.Sprintf("%g", bin.Longitude))
	}
	if bin.LocationName != "" {
		params.Set("name", bin.LocationName)
	}

	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// GeneratePNG renders a bin's QR code as a PNG image
func (s *QRService) GeneratePNG(bin *models.Bin) ([]byte, error) {
	png, err := qrcode.Encode(s.BinURL(bin), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
