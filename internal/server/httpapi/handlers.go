package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/server/entries"
	"github.com/avolkovs/daykeeper/internal/server/users"
)

// --- wire DTOs ---

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type entryDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func toUserDTO(u *users.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email}
}

func toSessionDTO(s *users.Session) sessionDTO {
	return sessionDTO{Token: s.Token, User: toUserDTO(s.User)}
}

func toEntryDTOs(list []entries.Entry) []entryDTO {
	result := make([]entryDTO, 0, len(list))
	for _, e := range list {
		result = append(result, entryDTO{
			ID:        e.ID,
			Title:     e.Title,
			Date:      e.Date,
			OwnerID:   e.OwnerID,
			CreatedAt: e.CreatedAt,
		})
	}
	return result
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a sentinel error to its wire code and an HTTP status.
// Clients dispatch on the code, the status is informative.
func writeError(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)

	var status int
	switch code {
	case common.CodeUnauthorized, common.CodeTokenExpired, common.CodeInvalidCredential:
		status = http.StatusUnauthorized
	case common.CodeEmailNotVerified:
		status = http.StatusForbidden
	case common.CodeNotFound:
		status = http.StatusNotFound
	case common.CodeEmailInUse:
		status = http.StatusConflict
	case common.CodeValidation, common.CodeWeakPassword, common.CodeMissingPassword,
		common.CodeInvalidEmail, common.CodeEmailNotRegistered:
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, errorEnvelope{Code: code, Message: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, common.ErrValidation)
		return false
	}
	return true
}

// --- account handlers ---

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.users.Signup(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.users.Verify(r.Context(), req.Token); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(sess))
}

func (s *Server) handleSSOExchange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticket string `json:"ticket"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.users.ExchangeSSO(r.Context(), req.Ticket)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(sess))
}

func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.users.RequestReset(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.users.ConfirmReset(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLogout exists so clients have a single place to end a session.
// Access tokens are stateless, so there is nothing to revoke server-side.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// --- entry handlers ---

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	list, err := s.entries.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(list))
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	var req struct {
		Title string `json:"title"`
		Date  string `json:"date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := s.entries.Create(r.Context(), user.ID, req.Title, req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTOs([]entries.Entry{*entry})[0])
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	id := mux.Vars(r)["id"]
	if err := s.entries.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
