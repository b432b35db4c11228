package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-session-server/internal/utils"
)

// Response messages shared by every JSON route
const (
	MessageSuccessfully         = "successfully"
	MessageFailed               = "failed"
	MessageUnauthorized         = "access-denied unauthorized"
	MessageAccessTokenExpired   = "access-token-expired"
	MessageAdminResource        = "access-denied admin-resource"
	MessageRefreshDenied        = "refresh-denied"
	MessageIncorrectCredentials = "incorrect-credentials"
	MessageUsernameExisted      = "username-existed"
	MessageInvalidRequest       = "invalid-request"
)

// apiResponse is the envelope every JSON route writes. Error is null on success.
type apiResponse struct {
	Message               string       `json:"message"`
	Error                 *string      `json:"error"`
	User                  *userPayload `json:"user,omitempty"`
	NewAccessToken        *string      `json:"newAccessToken,omitempty"`
	NewRefreshAccessToken *string      `json:"newRefreshAccessToken,omitempty"`
}

type userPayload struct {
	Role               string `json:"role"`
	Username           string `json:"username"`
	UserID             string `json:"userId"`
	AccessToken        string `json:"accessToken,omitempty"`
	RefreshAccessToken string `json:"refreshAccessToken,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeMessage writes the envelope; any status >= 400 repeats the message in error
func writeMessage(w http.ResponseWriter, status int, message string) {
	resp := apiResponse{Message: message}
	if status >= http.StatusBadRequest {
		resp.Error = utils.Ptr(message)
	}
	writeJSON(w, status, resp)
}
