package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	errorvalues "github.com/limbo/moodlog/internal/error_values"
	"github.com/limbo/moodlog/internal/service"
	"github.com/limbo/moodlog/pkg/entity"
	"github.com/limbo/moodlog/pkg/httputil"
	"github.com/limbo/moodlog/pkg/recommender"
)

const (
	dateLayout     = "2006-01-02"
	requestTimeout = 10 * time.Second

	registeredMessage      = "Registration successful."
	forgotPasswordMessage  = "If an account with this email exists, a password reset link has been sent."
	recommendationFallback = "We couldn't generate a recommendation right now. Please try again later."
	recommendationDisabled = "Recommendations are not configured. Set an OpenAI API key to receive personalised advice."
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token      string    `json:"token"`
	Username   string    `json:"username"`
	Expiration time.Time `json:"expiration"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type LogMoodRequest struct {
	Emoji string  `json:"emoji"`
	Note  *string `json:"note,omitempty"`
}

type MoodResponse struct {
	Emoji string  `json:"emoji"`
	Score int     `json:"score"`
	Date  string  `json:"date" example:"2024-03-10"`
	Note  *string `json:"note,omitempty"`
}

type RecommendationResponse struct {
	Recommendation string `json:"recommendation"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func toMoodResponse(e entity.MoodEntry) MoodResponse {
	return MoodResponse{
		Emoji: e.Emoji,
		Score: e.Score,
		Date:  e.Date.Format(dateLayout),
		Note:  e.Note,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "new account"
// @Success 200 {object} httputil.MessageResponse
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 409 {object} httputil.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	_, err := s.userService.Register(ctx, &service.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("registering error: validation", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "validation failed", err)
		case errors.Is(err, errorvalues.ErrUserExists):
			logger.Error("registering error: existed user")
			httputil.WriteErrorResponse(w, http.StatusConflict, "Username or email already exists.", nil)
		default:
			logger.Error("registering error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		}
		return
	}
	httputil.WriteMessage(w, http.StatusOK, registeredMessage)
	logger.Info("successful registration")
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 401 {object} httputil.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWrongCredentials) {
			logger.Error("login error: wrong credentials")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "invalid username or password", nil)
			return
		}
		logger.Error("login error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
		return
	}
	token, exp, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, LoginResponse{
		Token:      token,
		Username:   user.Username,
		Expiration: exp.UTC(),
	})
	logger.Info("successful login", slog.Int64("uid", user.ID))
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Always answers the same way so account existence is not revealed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "account email"
// @Success 200 {object} httputil.MessageResponse
// @Router /auth/forgot-password [post]
func (s *Server) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req ForgotPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("forgot password error: invalid body")
		httputil.WriteMessage(w, http.StatusOK, forgotPasswordMessage)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.userService.ForgotPassword(ctx, req.Email); err != nil {
		logger.Error("forgot password error: service error", slog.String("error", err.Error()))
	}
	httputil.WriteMessage(w, http.StatusOK, forgotPasswordMessage)
}

// LogMood godoc
// @Summary Log today's mood
// @Description A second log on the same UTC day replaces the first.
// @Tags mood
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LogMoodRequest true "mood"
// @Success 201 {object} MoodResponse
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 401 {object} httputil.ErrorResponse
// @Router /mood [post]
func (s *Server) LogMood(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("log mood error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req LogMoodRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Error("log mood error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	entry, err := s.moodService.LogMood(ctx, uid, service.LogMoodRequest{
		Emoji: req.Emoji,
		Note:  req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidEmoji):
			logger.Error("log mood error: invalid emoji")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "Invalid emoji.", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("log mood error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusUnauthorized, "user not found", nil)
		default:
			logger.Error("log mood error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while logging mood", nil)
		}
		return
	}
	w.Header().Set("Location", BasePath+"/mood/"+formatID(entry.ID))
	httputil.WriteJSONResponse(w, http.StatusCreated, MoodResponse{
		Emoji: entry.Emoji,
		Score: entry.Score,
		Date:  entry.Date.Format(dateLayout),
	})
	logger.Info("mood logged", slog.Int("score", entry.Score))
}

// GetTodayMood godoc
// @Summary Today's mood
// @Tags mood
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MoodResponse
// @Failure 401 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /mood/today [get]
func (s *Server) GetTodayMood(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get today mood error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	entry, err := s.moodService.GetTodayMood(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMoodNotFound) {
			httputil.WriteErrorResponse(w, http.StatusNotFound, "No mood logged today.", nil)
			return
		}
		logger.Error("get today mood error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting mood", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, toMoodResponse(*entry))
}

// GetWeekMoods godoc
// @Summary Moods of the last 7 days
// @Description Exactly 7 entries, oldest first. Days without a log carry ❓ and score 0.
// @Tags mood
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MoodResponse
// @Failure 401 {object} httputil.ErrorResponse
// @Router /mood/week [get]
func (s *Server) GetWeekMoods(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get week moods error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	week, err := s.moodService.GetLastSevenDays(ctx, uid)
	if err != nil {
		logger.Error("get week moods error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting moods", nil)
		return
	}
	resp := make([]MoodResponse, 0, len(week))
	for _, e := range week {
		resp = append(resp, toMoodResponse(e))
	}
	httputil.WriteJSONResponse(w, http.StatusOK, resp)
}

// GetMoodStats godoc
// @Summary Lifetime mood statistics
// @Tags mood
// @Produce json
// @Security BearerAuth
// @Success 200 {object} entity.MoodStats
// @Failure 401 {object} httputil.ErrorResponse
// @Router /mood/stats [get]
func (s *Server) GetMoodStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get stats error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	stats, err := s.moodService.GetStats(ctx, uid)
	if err != nil {
		logger.Error("get stats error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting stats", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}

// GetRecommendation godoc
// @Summary AI recommendation for the coming week
// @Description Upstream failures are reported as a fallback text, never as an error status.
// @Tags recommendation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RecommendationResponse
// @Failure 401 {object} httputil.ErrorResponse
// @Router /recommendation [get]
func (s *Server) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get recommendation error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	week, err := s.moodService.GetLastSevenDays(ctx, uid)
	cancel()
	if err != nil {
		logger.Error("get recommendation error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting moods", nil)
		return
	}
	text, err := s.recommend(r.Context(), week)
	if err != nil {
		if errors.Is(err, recommender.ErrNotConfigured) {
			logger.Warn("recommendation skipped: api key not configured")
			text = recommendationDisabled
		} else {
			logger.Error("recommendation request failed", slog.String("error", err.Error()))
			text = recommendationFallback
		}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, RecommendationResponse{Recommendation: text})
}

func (s *Server) recommend(ctx context.Context, week []entity.MoodEntry) (string, error) {
	if s.recommender == nil {
		return "", recommender.ErrNotConfigured
	}
	return s.recommender.Recommend(ctx, week)
}

// Health godoc
// @Summary Liveness and database reachability
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} httputil.ErrorResponse
// @Router /health [get]
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			GetLoggerFromCtx(r.Context()).Error("health check failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "database unavailable", nil)
			return
		}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, HealthResponse{Status: "ok"})
}
