package controllers

import (
	"bytes"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/models"
	"github.com/talentlink-app/talentlink_backend/repositories"
	"github.com/talentlink-app/talentlink_backend/utils"
)

// AgentController serves the agent-facing profile and client surfaces.
type AgentController struct {
	DB          *mongo.Client
	accounts    *repositories.AccountRepository
	users       *repositories.UserRepository
	assignments *repositories.AssignmentRepository
	logger      *log.Logger
}

func NewAgentController(db *mongo.Client) *AgentController {
	return &AgentController{
		DB:          db,
		accounts:    repositories.NewAccountRepository(db),
		users:       repositories.NewUserRepository(db),
		assignments: repositories.NewAssignmentRepository(db),
		logger:      log.New(os.Stdout, "[AGENT] ", log.LstdFlags),
	}
}

// GetProfile returns the agent's own account including the agent profile
// block.
func (ag *AgentController) GetProfile(c echo.Context) error {
	user, ok := ag.requireAgent(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile applies partial edits to the agent profile. Working hours
// are validated as HH:MM windows with start before end.
func (ag *AgentController) UpdateProfile(c echo.Context) error {
	user, ok := ag.requireAgent(c)
	if !ok {
		return nil
	}

	var req models.UpdateAgentProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Description != nil {
		sanitized := utils.SanitizeInput(*req.Description)
		req.Description = &sanitized
	}
	if req.WorkingHours != nil {
		if err := utils.ValidateWorkingHours(req.WorkingHours.Start, req.WorkingHours.End); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid working hours: " + err.Error(),
			})
		}
	}
	if req.PercentageCharge != nil && (*req.PercentageCharge < 0 || *req.PercentageCharge > 100) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "percentageCharge must be between 0 and 100",
		})
	}
	if req.OneTimeFee != nil && *req.OneTimeFee < 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "oneTimeFee cannot be negative",
		})
	}
	for platform, price := range req.Pricing {
		if price < 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Price for " + platform + " cannot be negative",
			})
		}
	}

	if err := ag.users.UpdateAgentProfile(user.ID, req); err != nil {
		ag.logger.Printf("Profile update failed for agent %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
		})
	}

	updated, err := ag.accounts.FindByID(user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Profile updated but failed to reload",
		})
	}
	updated.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
		Data:    updated,
	})
}

// UploadVerificationDoc stores an identity or credential document for admin
// review.
func (ag *AgentController) UploadVerificationDoc(c echo.Context) error {
	user, ok := ag.requireAgent(c)
	if !ok {
		return nil
	}

	file, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "document file is required",
		})
	}
	if err := utils.ValidateFileType(file.Filename, "document"); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	data, err := readFormFile(file)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read file",
		})
	}

	filename := "doc_" + user.ID.Hex() + "_" + time.Now().Format("20060102150405") + filepath.Ext(file.Filename)
	fileURL, err := utils.UploadFileToPath(data, filename, "document", "documents")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store document",
		})
	}

	if err := ag.users.AppendVerificationDoc(user.ID, fileURL); err != nil {
		ag.logger.Printf("Verification doc append failed for agent %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record document",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Verification document uploaded",
		Data:    map[string]string{"document": fileURL},
	})
}

// UploadIntroVideo stores the agent's intro video and generates a poster
// thumbnail from its first second.
func (ag *AgentController) UploadIntroVideo(c echo.Context) error {
	user, ok := ag.requireAgent(c)
	if !ok {
		return nil
	}

	file, err := c.FormFile("video")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "video file is required",
		})
	}
	if err := utils.ValidateFileType(file.Filename, "video"); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	data, err := readFormFile(file)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read file",
		})
	}

	filename := "intro_" + user.ID.Hex() + "_" + time.Now().Format("20060102150405") + filepath.Ext(file.Filename)
	videoURL, err := utils.UploadFileToPath(data, filename, "video", "videos")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store video",
		})
	}

	thumbnailURL, err := utils.GenerateVideoThumbnail(videoURL)
	if err != nil {
		// The video is usable without a poster frame.
		ag.logger.Printf("Thumbnail generation failed for %s: %v", videoURL, err)
		thumbnailURL = ""
	}

	if err := ag.users.UpdateIntroVideo(user.ID, videoURL, thumbnailURL); err != nil {
		ag.logger.Printf("Intro video update failed for agent %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record video",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Intro video uploaded",
		Data: map[string]string{
			"video":     videoURL,
			"thumbnail": thumbnailURL,
		},
	})
}

// GenerateShareQR builds a QR code pointing at the agent's public profile
// and stores it alongside the other uploads.
func (ag *AgentController) GenerateShareQR(c echo.Context) error {
	user, ok := ag.requireAgent(c)
	if !ok {
		return nil
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "https://talentlink.app"
	}
	profileURL := baseURL + "/agents/" + user.ID.Hex()

	code, err := qr.Encode(profileURL, qr.M, qr.Auto)
	if err != nil {
		ag.logger.Printf("QR encode failed for agent %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}
	code, err = barcode.Scale(code, 512, 512)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scale QR code",
		})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode QR code",
		})
	}

	filename := "qr_" + user.ID.Hex() + ".png"
	qrURL, err := utils.UploadFileToPath(buf.Bytes(), filename, "image", "qrcodes")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store QR code",
		})
	}

	if err := ag.users.UpdateShareQR(user.ID, qrURL); err != nil {
		ag.logger.Printf("QR persist failed for agent %s: %v", user.ID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "QR code generated",
		Data: map[string]string{
			"qrCode":     qrURL,
			"profileUrl": profileURL,
		},
	})
}

// ListClients returns the candidates currently assigned to the agent.
func (ag *AgentController) ListClients(c echo.Context) error {
	user, ok := ag.requireAgent(c)
	if !ok {
		return nil
	}

	clients, err := ag.assignments.CandidatesForAgent(user.ID)
	if err != nil {
		ag.logger.Printf("Client list failed for agent %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve clients",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Clients retrieved successfully",
		Data:    clients,
	})
}

// requireAgent resolves the caller, writing the error response itself when
// the caller is not an agent. The bool reports whether to proceed.
func (ag *AgentController) requireAgent(c echo.Context) (*models.User, bool) {
	user, err := utils.GetUserFromToken(c, ag.DB)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return nil, false
	}
	if user.UserType != models.UserTypeAgent {
		c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied for your user type",
		})
		return nil, false
	}
	return user, true
}

func readFormFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}
