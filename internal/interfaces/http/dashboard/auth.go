package dashboard

import (
	"context"
	"net/http"

	"github.com/SUMMERxKx/Review/internal/application"
	"github.com/SUMMERxKx/Review/internal/interfaces/http/common"
)

type registerRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	OwnerEmail string `json:"ownerEmail" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	OwnerEmail string `json:"ownerEmail" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type profileUpdateRequest struct {
	Name         *string              `json:"name" validate:"omitempty,max=200"`
	FormSettings *formSettingsPayload `json:"formSettings"`
}

type formSettingsPayload struct {
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=1000"`
	ThankYouMessage *string `json:"thankyouMessage" validate:"omitempty,max=500"`
	LogoURL         *string `json:"logoUrl" validate:"omitempty,max=2048"`
	ThemeColor      *string `json:"themeColor"`
}

type registerResponse struct {
	Message  string                  `json:"message"`
	Business common.BusinessResponse `json:"business"`
}

type loginResponse struct {
	Token     string                  `json:"token"`
	ExpiresAt int64                   `json:"expiresAt"`
	Business  common.BusinessResponse `json:"business"`
}

type qrCodeResponse struct {
	QRCodeURL   string `json:"qrCodeUrl"`
	FeedbackURL string `json:"feedbackUrl"`
}

func (req profileUpdateRequest) command() application.UpdateProfileCommand {
	cmd := application.UpdateProfileCommand{Name: req.Name}
	if fs := req.FormSettings; fs != nil {
		cmd.Title = fs.Title
		cmd.Description = fs.Description
		cmd.ThankYouMessage = fs.ThankYouMessage
		cmd.LogoURL = fs.LogoURL
		cmd.ThemeColor = fs.ThemeColor
	}
	return cmd
}

func (h *Handler) registerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		business, err := h.businesses.Register(ctx, application.RegisterCommand{
			Name:       req.Name,
			OwnerEmail: req.OwnerEmail,
			Password:   req.Password,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, registerResponse{
			Message:  "Business registered successfully",
			Business: common.NewBusinessResponse(*business),
		})
	}
}

func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.businesses.Login(ctx, application.LoginCommand{
			OwnerEmail: req.OwnerEmail,
			Password:   req.Password,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, loginResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			Business:  common.NewBusinessResponse(result.Business),
		})
	}
}

func (h *Handler) profileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		business, err := h.businesses.Profile(ctx, user.BusinessID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewBusinessResponse(*business))
	}
}

func (h *Handler) profileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		var req profileUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		business, err := h.businesses.UpdateProfile(ctx, user.BusinessID, req.command())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewBusinessResponse(*business))
	}
}

// QR の生成は画像アップロードを伴うことがあるので通常より長めに待つ。
func (h *Handler) regenerateQRHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*common.RequestTimeout)
		defer cancel()

		qr, err := h.businesses.RegenerateQR(ctx, user.BusinessID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, qrCodeResponse{
			QRCodeURL:   qr.ImageURL,
			FeedbackURL: qr.FeedbackURL,
		})
	}
}
