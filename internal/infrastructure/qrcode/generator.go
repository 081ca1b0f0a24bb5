// Package qrcode renders feedback-form QR codes.
package qrcode

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"

	"github.com/SUMMERxKx/Review/internal/application"
)

const defaultSize = 256

// ImageStore persists a rendered PNG and returns a URL for it.
type ImageStore interface {
	PutPNG(ctx context.Context, key string, png []byte) (string, error)
}

// Generator builds "<base>/feedback/<businessID>" QR codes. Without a store the
// image is returned inline as a data URL.
type Generator struct {
	baseURL string
	size    int
	store   ImageStore
}

func NewGenerator(feedbackBaseURL string, store ImageStore) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(feedbackBaseURL, "/"),
		size:    defaultSize,
		store:   store,
	}
}

// FeedbackURL is the public form address for a business.
func (g *Generator) FeedbackURL(businessID string) string {
	return g.baseURL + "/feedback/" + businessID
}

func (g *Generator) Generate(ctx context.Context, businessID string) (application.QRCode, error) {
	if strings.TrimSpace(businessID) == "" {
		return application.QRCode{}, errors.New("business id is required")
	}
	feedbackURL := g.FeedbackURL(businessID)
	png, err := goqrcode.Encode(feedbackURL, goqrcode.Medium, g.size)
	if err != nil {
		return application.QRCode{}, fmt.Errorf("encode qr code: %w", err)
	}

	if g.store == nil {
		return application.QRCode{
			ImageURL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
			FeedbackURL: feedbackURL,
		}, nil
	}
	imageURL, err := g.store.PutPNG(ctx, "qrcodes/"+businessID+".png", png)
	if err != nil {
		return application.QRCode{}, fmt.Errorf("store qr code: %w", err)
	}
	return application.QRCode{ImageURL: imageURL, FeedbackURL: feedbackURL}, nil
}
