package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/middleware"
	"github.com/talentlink-app/talentlink_backend/models"
	"github.com/talentlink-app/talentlink_backend/repositories"
	"github.com/talentlink-app/talentlink_backend/utils"
	ws "github.com/talentlink-app/talentlink_backend/websocket"
)

// AdminController handles the back-office: account review, assignments,
// category pools, saved filters and the dashboard.
type AdminController struct {
	DB           *mongo.Client
	accounts     *repositories.AccountRepository
	assignments  *repositories.AssignmentRepository
	categories   *repositories.CategoryRepository
	savedFilters *repositories.SavedFilterRepository
	hub          *ws.Hub
	logger       *log.Logger
}

func NewAdminController(db *mongo.Client, hub *ws.Hub) *AdminController {
	return &AdminController{
		DB:           db,
		accounts:     repositories.NewAccountRepository(db),
		assignments:  repositories.NewAssignmentRepository(db),
		categories:   repositories.NewCategoryRepository(db, config.GetRedisClient()),
		savedFilters: repositories.NewSavedFilterRepository(db, config.GetRedisClient()),
		hub:          hub,
		logger:       log.New(os.Stdout, "[ADMIN] ", log.LstdFlags),
	}
}

// Login authenticates an admin against the admins collection.
func (ac *AdminController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var admin models.Admin
	err = config.GetCollection(ac.DB, "admins").FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(admin.ID.Hex(), admin.Email, models.UserTypeAdmin)
	if err != nil {
		ac.logger.Printf("Admin token generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	admin.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"admin":        admin,
		},
	})
}

// ForgotPassword emails a one-time reset code, stored in Redis for ten
// minutes. The response is identical whether or not the email exists.
func (ac *AdminController) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email is required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	neutral := func() error {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "If the email exists, a reset code has been sent",
		})
	}

	redisClient := config.GetRedisClient()
	if redisClient == nil {
		ac.logger.Printf("Password reset requested but Redis is unavailable")
		return neutral()
	}
	if err := utils.ValidateOTPAttempts(email, redisClient); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many reset attempts, please try again later",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var admin models.Admin
	if err := config.GetCollection(ac.DB, "admins").FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		return neutral()
	}

	otp, err := utils.GenerateSecureOTP()
	if err != nil {
		ac.logger.Printf("OTP generation failed: %v", err)
		return neutral()
	}
	if err := redisClient.Set(ctx, "admin_reset_otp:"+email, otp, 10*time.Minute).Err(); err != nil {
		ac.logger.Printf("Failed to store reset OTP: %v", err)
		return neutral()
	}

	go func() {
		body := "Your TalentLink admin password reset code is: " + otp + "\n\nThe code expires in 10 minutes."
		if err := utils.SendEmail(email, "Password reset code", body); err != nil {
			ac.logger.Printf("Failed to email reset code to %s: %v", email, err)
		}
	}()

	return neutral()
}

// ResetPassword exchanges a valid OTP for a new password.
func (ac *AdminController) ResetPassword(c echo.Context) error {
	var req struct {
		Email       string `json:"email" validate:"required,email"`
		OTP         string `json:"otp" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=8"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, OTP and a password of at least 8 characters are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	redisClient := config.GetRedisClient()
	if redisClient == nil {
		return c.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "Password reset is temporarily unavailable",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stored, err := redisClient.Get(ctx, "admin_reset_otp:"+email).Result()
	if err != nil || stored != req.OTP {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired reset code",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	result, err := config.GetCollection(ac.DB, "admins").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": string(hashed), "updatedAt": time.Now()}},
	)
	if err != nil || result.MatchedCount == 0 {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset password",
		})
	}

	redisClient.Del(ctx, "admin_reset_otp:"+email)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}

// Dashboard returns the aggregate counters for the admin landing page.
func (ac *AdminController) Dashboard(c echo.Context) error {
	stats, err := ac.accounts.DashboardStats()
	if err != nil {
		ac.logger.Printf("Dashboard stats failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute dashboard stats",
		})
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats retrieved successfully",
		Data:    stats,
	})
}

// ListAccounts returns candidate/agent accounts filtered by role, approval
// status, categories (any-of) and free-text search.
func (ac *AdminController) ListAccounts(c echo.Context) error {
	filter := models.AccountFilter{
		UserType:   c.QueryParam("userType"),
		Status:     c.QueryParam("status"),
		SearchTerm: utils.SanitizeInput(c.QueryParam("search")),
	}
	if categories := c.QueryParam("categories"); categories != "" {
		filter.Categories = models.NormalizeCategories(strings.Split(categories, ","))
	}
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if limit, err := strconv.ParseInt(limitStr, 10, 64); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	if filter.UserType != "" && filter.UserType != models.UserTypeCandidate && filter.UserType != models.UserTypeAgent {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "userType must be candidate or agent",
		})
	}
	if filter.Status != "" && filter.Status != models.StatusPending &&
		filter.Status != models.StatusApproved && filter.Status != models.StatusRejected {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "status must be pending, approved or rejected",
		})
	}

	accounts, err := ac.accounts.List(filter)
	if err != nil {
		ac.logger.Printf("Account listing failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve accounts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Accounts retrieved successfully",
		Data:    accounts,
	})
}

// GetAccount returns a single account with its assignment history.
func (ac *AdminController) GetAccount(c echo.Context) error {
	id, ok := ac.paramID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid account ID",
		})
	}

	user, err := ac.accounts.FindByID(id)
	if err != nil {
		return ac.repoError(c, err, "Account")
	}
	user.Password = ""

	var history []models.Assignment
	if user.UserType == models.UserTypeCandidate {
		history, err = ac.assignments.ListForCandidate(id)
		if err != nil {
			ac.logger.Printf("Assignment history lookup failed for %s: %v", id.Hex(), err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account retrieved successfully",
		Data: map[string]interface{}{
			"account":     user,
			"assignments": history,
		},
	})
}

// ApproveAccount moves an account to approved. Safe to repeat.
func (ac *AdminController) ApproveAccount(c echo.Context) error {
	id, ok := ac.paramID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid account ID",
		})
	}

	user, changed, err := ac.accounts.Approve(id)
	if err != nil {
		return ac.repoError(c, err, "Account")
	}

	if changed {
		go utils.NotifyAccountDecision(ac.DB, user, models.StatusApproved, "")
		ac.pushStatusUpdate(user, models.StatusApproved, "")
	}

	message := "Account approved successfully"
	if !changed {
		message = "Account was already approved"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    user,
	})
}

// RejectAccount moves an account to rejected with an optional reason.
// Rejecting an already rejected account replaces the recorded reason.
func (ac *AdminController) RejectAccount(c echo.Context) error {
	id, ok := ac.paramID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid account ID",
		})
	}

	var req models.RejectAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	req.Reason = utils.SanitizeInput(req.Reason)

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	user, changed, err := ac.accounts.Reject(id, req.Reason, adminID)
	if err != nil {
		return ac.repoError(c, err, "Account")
	}

	if changed {
		go utils.NotifyAccountDecision(ac.DB, user, models.StatusRejected, req.Reason)
		ac.pushStatusUpdate(user, models.StatusRejected, req.Reason)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account rejected",
		Data:    user,
	})
}

// UnrejectAccount moves a rejected account back to pending review.
func (ac *AdminController) UnrejectAccount(c echo.Context) error {
	id, ok := ac.paramID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid account ID",
		})
	}

	user, changed, err := ac.accounts.Unreject(id)
	if err != nil {
		if err == models.ErrInvalidTransition {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Only rejected accounts can be moved back to pending",
			})
		}
		return ac.repoError(c, err, "Account")
	}

	if changed {
		go utils.NotifyAccountDecision(ac.DB, user, models.StatusPending, "")
		ac.pushStatusUpdate(user, models.StatusPending, "")
	}

	message := "Account moved back to pending review"
	if !changed {
		message = "Account was already pending"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    user,
	})
}

// DeleteAccount removes the account and cascades through assignments and
// candidate mirror lists.
func (ac *AdminController) DeleteAccount(c echo.Context) error {
	id, ok := ac.paramID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid account ID",
		})
	}

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	if err := ac.accounts.Delete(id, adminID); err != nil {
		return ac.repoError(c, err, "Account")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account deleted successfully",
	})
}

// AssignAgent links an approved agent to a candidate.
func (ac *AdminController) AssignAgent(c echo.Context) error {
	var req models.AssignAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "candidateId and agentId are required",
		})
	}

	candidateID, err1 := primitive.ObjectIDFromHex(req.CandidateID)
	agentID, err2 := primitive.ObjectIDFromHex(req.AgentID)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid candidate or agent ID",
		})
	}

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	assignment, err := ac.assignments.Assign(candidateID, agentID, adminID)
	if err != nil {
		switch err {
		case repositories.ErrAlreadyAssigned:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Agent is already assigned to this candidate",
			})
		case repositories.ErrAgentNotApproved:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Only approved agents can be assigned",
			})
		case repositories.ErrWrongUserType:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "candidateId must be a candidate and agentId an agent",
			})
		case repositories.ErrNotFound:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Candidate or agent not found",
			})
		}
		ac.logger.Printf("Assignment failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to assign agent",
		})
	}

	go ac.notifyAssignment(candidateID, agentID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Agent assigned successfully",
		Data:    assignment,
	})
}

// UnassignAgent removes the link between a candidate and an agent.
func (ac *AdminController) UnassignAgent(c echo.Context) error {
	var req models.AssignAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "candidateId and agentId are required",
		})
	}

	candidateID, err1 := primitive.ObjectIDFromHex(req.CandidateID)
	agentID, err2 := primitive.ObjectIDFromHex(req.AgentID)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid candidate or agent ID",
		})
	}

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	if err := ac.assignments.Unassign(candidateID, agentID, adminID); err != nil {
		if err == repositories.ErrNotAssigned {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Agent is not assigned to this candidate",
			})
		}
		ac.logger.Printf("Unassignment failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to unassign agent",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Agent unassigned successfully",
	})
}

// ListAssignments returns the assignment ledger. Without filters only
// active records are listed; filtering by candidateId or agentId includes
// the removed history for auditing.
func (ac *AdminController) ListAssignments(c echo.Context) error {
	var candidateID, agentID *primitive.ObjectID
	if hex := c.QueryParam("candidateId"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid candidateId",
			})
		}
		candidateID = &id
	}
	if hex := c.QueryParam("agentId"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid agentId",
			})
		}
		agentID = &id
	}

	var assignments []models.Assignment
	var err error
	if candidateID != nil || agentID != nil {
		assignments, err = ac.assignments.List(candidateID, agentID)
	} else {
		assignments, err = ac.assignments.ListActive()
	}
	if err != nil {
		ac.logger.Printf("Assignment listing failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve assignments",
		})
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Assignments retrieved successfully",
		Data:    assignments,
	})
}

// UpdateAgentStats edits the curated performance numbers on an agent.
func (ac *AdminController) UpdateAgentStats(c echo.Context) error {
	id, ok := ac.paramID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid account ID",
		})
	}

	var req models.UpdateAgentStatsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.SuccessRate == nil && req.TotalClients == nil && req.Rating == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No stats fields to update",
		})
	}

	user, err := ac.accounts.UpdateAgentStats(id, req)
	if err != nil {
		if err == repositories.ErrWrongUserType {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Stats can only be edited on agent accounts",
			})
		}
		return ac.repoError(c, err, "Agent")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Agent stats updated successfully",
		Data:    user,
	})
}

// SetAccountCategories replaces the category tags on an account.
func (ac *AdminController) SetAccountCategories(c echo.Context) error {
	id, ok := ac.paramID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid account ID",
		})
	}

	var req models.SetCategoriesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	user, err := ac.categories.SetUserCategories(id, req.Categories)
	if err != nil {
		if err == repositories.ErrWrongUserType {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Categories can only be set on candidate or agent accounts",
			})
		}
		return ac.repoError(c, err, "Account")
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories updated successfully",
		Data:    user,
	})
}

// ListSavedFilters returns the admin's saved listing filters.
func (ac *AdminController) ListSavedFilters(c echo.Context) error {
	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	filters, err := ac.savedFilters.List(adminID)
	if err != nil {
		ac.logger.Printf("Saved filter listing failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve saved filters",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Saved filters retrieved successfully",
		Data:    filters,
	})
}

// SaveFilter stores a new saved listing filter for the admin.
func (ac *AdminController) SaveFilter(c echo.Context) error {
	var req models.SaveFilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Filter name is required",
		})
	}
	req.Name = utils.SanitizeInput(req.Name)

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	filter, err := ac.savedFilters.Save(adminID, req)
	if err != nil {
		ac.logger.Printf("Saved filter create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save filter",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Filter saved successfully",
		Data:    filter,
	})
}

// DeleteSavedFilter removes one of the admin's saved filters.
func (ac *AdminController) DeleteSavedFilter(c echo.Context) error {
	filterID := c.Param("id")
	if filterID == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Filter ID is required",
		})
	}

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	if err := ac.savedFilters.Delete(adminID, filterID); err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Filter not found",
			})
		}
		ac.logger.Printf("Saved filter delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete filter",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Filter deleted successfully",
	})
}

// pushStatusUpdate delivers the approval decision over websocket when the
// user is connected. Delivery is best effort.
func (ac *AdminController) pushStatusUpdate(user *models.User, status, reason string) {
	if ac.hub == nil {
		return
	}
	err := ac.hub.SendToUser(user.ID, ws.Notification{
		Type:    ws.NotificationTypeApprovalUpdate,
		Message: "Your account status has changed",
		Data: map[string]string{
			"status": status,
			"reason": reason,
		},
	})
	if err != nil {
		ac.logger.Printf("Websocket status push skipped for %s: %v", user.ID.Hex(), err)
	}
}

// notifyAssignment loads both sides of a fresh assignment and fans out the
// in-app, email, push and websocket notifications.
func (ac *AdminController) notifyAssignment(candidateID, agentID primitive.ObjectID) {
	candidate, err := ac.accounts.FindByID(candidateID)
	if err != nil {
		ac.logger.Printf("Assignment notify: candidate load failed: %v", err)
		return
	}
	agent, err := ac.accounts.FindByID(agentID)
	if err != nil {
		ac.logger.Printf("Assignment notify: agent load failed: %v", err)
		return
	}

	utils.NotifyAssignment(ac.DB, candidate, agent)

	if ac.hub != nil {
		_ = ac.hub.SendToUser(candidateID, ws.Notification{
			Type:    ws.NotificationTypeAssignmentUpdate,
			Message: "A new agent has been assigned to you",
			Data:    map[string]string{"agentId": agentID.Hex()},
		})
		_ = ac.hub.SendToUser(agentID, ws.Notification{
			Type:    ws.NotificationTypeAssignmentUpdate,
			Message: "A new client has been assigned to you",
			Data:    map[string]string{"candidateId": candidateID.Hex()},
		})
	}
}

func (ac *AdminController) paramID(c echo.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func (ac *AdminController) repoError(c echo.Context, err error, what string) error {
	if err == repositories.ErrNotFound {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: what + " not found",
		})
	}
	ac.logger.Printf("%s operation failed: %v", what, err)
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
	})
}
