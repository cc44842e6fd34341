package controllers

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentlink-app/talentlink_backend/models"
	"github.com/talentlink-app/talentlink_backend/repositories"
	"github.com/talentlink-app/talentlink_backend/utils"
)

// CandidateController serves the candidate-facing dashboard and agent list.
type CandidateController struct {
	DB          *mongo.Client
	accounts    *repositories.AccountRepository
	assignments *repositories.AssignmentRepository
	messages    *repositories.MessageRepository
	logger      *log.Logger
}

func NewCandidateController(db *mongo.Client) *CandidateController {
	return &CandidateController{
		DB:          db,
		accounts:    repositories.NewAccountRepository(db),
		assignments: repositories.NewAssignmentRepository(db),
		messages:    repositories.NewMessageRepository(db),
		logger:      log.New(os.Stdout, "[CANDIDATE] ", log.LstdFlags),
	}
}

// Dashboard returns the candidate's own status, rejection reason if any,
// assigned agents and unread message count in one call.
func (cc *CandidateController) Dashboard(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, cc.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}
	if user.UserType != models.UserTypeCandidate {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied for your user type",
		})
	}

	dashboard := map[string]interface{}{
		"account":        user,
		"approvalStatus": user.ApprovalStatus,
		"agents":         []*models.User{},
		"unreadMessages": int64(0),
	}
	if user.Rejection != nil {
		dashboard["rejectionReason"] = user.Rejection.Reason
	}

	// A non-approved candidate sees their status but no marketplace data.
	if user.IsApproved() {
		agents, err := cc.assignments.AgentsForCandidate(user.ID)
		if err != nil {
			cc.logger.Printf("Agent list failed for candidate %s: %v", user.ID.Hex(), err)
		} else {
			dashboard["agents"] = agents
		}

		unread, err := cc.messages.CountUnread(user.ID)
		if err != nil {
			cc.logger.Printf("Unread count failed for candidate %s: %v", user.ID.Hex(), err)
		} else {
			dashboard["unreadMessages"] = unread
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard retrieved successfully",
		Data:    dashboard,
	})
}

// ListAgents returns the candidate's currently visible agents. Only agents
// that still resolve to an approved agent account are included.
func (cc *CandidateController) ListAgents(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	agents, err := cc.assignments.AgentsForCandidate(userID)
	if err != nil {
		switch err {
		case repositories.ErrNotFound:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Account not found",
			})
		case repositories.ErrWrongUserType:
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your user type",
			})
		}
		cc.logger.Printf("Agent list failed for candidate %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve agents",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Agents retrieved successfully",
		Data:    agents,
	})
}
