package ports

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authports "github.com/erzhan12/habit-reward-go/internal/auth/ports"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/clock"
	"github.com/erzhan12/habit-reward-go/internal/common/httputil"
	"github.com/erzhan12/habit-reward-go/internal/common/validator"
	"github.com/erzhan12/habit-reward-go/internal/habits/app"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/command"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/query"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habitlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/progress"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
)

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// Handlers exposes the habits module's REST surface: habit and reward
// CRUD, habit completion and reversal, habit-log history, and streak
// views. Every route here is authenticated; callers mount it behind
// auth middleware.
type Handlers struct {
	app      app.Application
	validate *validator.Validator
}

func NewHandlers(a app.Application, validate *validator.Validator) *Handlers {
	return &Handlers{app: a, validate: validate}
}

// Mount wires the habits, rewards, habit-logs, and streaks routes onto
// r, which the caller has already wrapped with AuthMiddleware.
func (h *Handlers) Mount(r chi.Router) {
	r.Get("/habits", h.listHabits)
	r.Post("/habits", h.createHabit)
	r.Patch("/habits/{id}", h.updateHabit)
	r.Delete("/habits/{id}", h.deactivateHabit)
	r.Post("/habits/{id}/complete", h.completeHabit)
	r.Post("/habits/batch-complete", h.batchComplete)

	r.Get("/rewards", h.listRewards)
	r.Post("/rewards", h.createReward)
	r.Post("/rewards/{id}/claim", h.claimReward)

	r.Get("/habit-logs", h.listHabitLogs)
	r.Delete("/habit-logs/{id}", h.revertLog)

	r.Get("/streaks", h.listStreaks)
	r.Get("/streaks/{habit_id}", h.getStreak)
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid request body"))
		return false
	}
	if err := h.validate.Validate(dst); err != nil {
		httputil.Error(w, r, apperror.ValidationFailed(err.Error()))
		return false
	}
	return true
}

func currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	u, ok := authports.GetUserFromContext(r.Context())
	if !ok {
		httputil.Error(w, r, apperror.AuthRequired())
		return 0, false
	}
	return u.UserID, true
}

// --- habits ---

func (h *Handlers) listHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	activeOnly := false
	if p := httputil.GetBoolPtrQuery(r, "active"); p != nil {
		activeOnly = *p
	}
	var category *string
	if c := httputil.GetStringQuery(r, "category", ""); c != "" {
		category = &c
	}

	habits, err := h.app.Queries.ListHabits.Handle(r.Context(), query.ListHabits{
		UserID:     userID,
		ActiveOnly: activeOnly,
		Category:   category,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	resp := make([]habitResponse, 0, len(habits))
	for _, hb := range habits {
		resp = append(resp, newHabitResponse(hb))
	}
	httputil.Success(w, r, resp, "habits retrieved")
}

func (h *Handlers) createHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name            string  `json:"name" validate:"required,min=1,max=100"`
		Category        *string `json:"category" validate:"omitempty,max=50"`
		Weight          int     `json:"weight" validate:"required,min=1,max=100"`
		AllowedSkipDays int     `json:"allowed_skip_days" validate:"min=0,max=7"`
		ExemptWeekdays  []int   `json:"exempt_weekdays" validate:"omitempty,weekdayset"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	habitID, err := h.app.Commands.CreateHabit.Handle(r.Context(), command.CreateHabit{
		UserID:          userID,
		Name:            req.Name,
		Category:        req.Category,
		Weight:          req.Weight,
		AllowedSkipDays: req.AllowedSkipDays,
		ExemptWeekdays:  req.ExemptWeekdays,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	hb, err := h.app.Queries.GetHabit.Handle(r.Context(), query.GetHabit{HabitID: habitID, UserID: userID})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.Created(w, r, newHabitResponse(hb), "habit created")
}

func (h *Handlers) updateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	habitID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid habit id"))
		return
	}

	var req struct {
		Name            *string `json:"name" validate:"omitempty,min=1,max=100"`
		Category        *string `json:"category" validate:"omitempty,max=50"`
		Weight          *int    `json:"weight" validate:"omitempty,min=1,max=100"`
		AllowedSkipDays *int    `json:"allowed_skip_days" validate:"omitempty,min=0,max=7"`
		ExemptWeekdays  []int   `json:"exempt_weekdays" validate:"omitempty,weekdayset"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.app.Commands.UpdateHabit.Handle(r.Context(), command.UpdateHabit{
		HabitID:         habitID,
		UserID:          userID,
		Name:            req.Name,
		Category:        req.Category,
		Weight:          req.Weight,
		AllowedSkipDays: req.AllowedSkipDays,
		ExemptWeekdays:  req.ExemptWeekdays,
	}); err != nil {
		httputil.Error(w, r, err)
		return
	}

	hb, err := h.app.Queries.GetHabit.Handle(r.Context(), query.GetHabit{HabitID: habitID, UserID: userID})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.Success(w, r, newHabitResponse(hb), "habit updated")
}

func (h *Handlers) deactivateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	habitID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid habit id"))
		return
	}

	if err := h.app.Commands.DeactivateHabit.Handle(r.Context(), command.DeactivateHabit{
		HabitID: habitID,
		UserID:  userID,
	}); err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, nil, "habit deactivated")
}

func (h *Handlers) completeHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	habitID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid habit id"))
		return
	}

	var req struct {
		TargetDate *string `json:"target_date"`
	}
	if r.ContentLength != 0 {
		if !h.decode(w, r, &req) {
			return
		}
	}

	targetDate, err := parseOptionalDate(req.TargetDate)
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid target_date"))
		return
	}

	result, err := h.app.Commands.ProcessCompletionByID.Handle(r.Context(), command.ProcessCompletionByID{
		UserID:     userID,
		HabitID:    habitID,
		TargetDate: targetDate,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, completionResponse(result), "habit completed")
}

func (h *Handlers) batchComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Completions []struct {
			HabitID    int64   `json:"habit_id" validate:"required"`
			TargetDate *string `json:"target_date"`
		} `json:"completions" validate:"required,min=1,dive"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	type itemResult struct {
		HabitID int64  `json:"habit_id"`
		Error   string `json:"error,omitempty"`
	}
	results := make([]map[string]any, 0, len(req.Completions))
	var errs []itemResult

	for _, c := range req.Completions {
		targetDate, err := parseOptionalDate(c.TargetDate)
		if err != nil {
			errs = append(errs, itemResult{HabitID: c.HabitID, Error: "invalid target_date"})
			continue
		}

		result, err := h.app.Commands.ProcessCompletionByID.Handle(r.Context(), command.ProcessCompletionByID{
			UserID:     userID,
			HabitID:    c.HabitID,
			TargetDate: targetDate,
		})
		if err != nil {
			errs = append(errs, itemResult{HabitID: c.HabitID, Error: err.Error()})
			continue
		}

		resp := completionResponse(result)
		resp["habit_id"] = c.HabitID
		results = append(results, resp)
	}

	httputil.Success(w, r, map[string]any{
		"results": results,
		"errors":  errs,
	}, "batch completion processed")
}

// --- rewards ---

func (h *Handlers) listRewards(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	activeOnly := false
	if p := httputil.GetBoolPtrQuery(r, "active"); p != nil {
		activeOnly = *p
	}

	rewards, err := h.app.Queries.ListRewards.Handle(r.Context(), query.ListRewards{
		UserID:     userID,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	progressByReward := map[int64]*progress.Progress{}
	prog, err := h.app.Queries.ListProgress.Handle(r.Context(), query.ListProgress{UserID: userID})
	if err == nil {
		for _, p := range prog {
			progressByReward[p.RewardID()] = p
		}
	}

	resp := make([]map[string]any, 0, len(rewards))
	for _, rw := range rewards {
		resp = append(resp, newRewardResponse(rw, progressByReward[rw.RewardID()]))
	}
	httputil.Success(w, r, resp, "rewards retrieved")
}

func (h *Handlers) createReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name           string   `json:"name" validate:"required,min=1,max=100"`
		Weight         float64  `json:"weight" validate:"required,gt=0"`
		PiecesRequired int      `json:"pieces_required" validate:"required,min=1"`
		PieceValue     *float64 `json:"piece_value" validate:"omitempty,gt=0"`
		MaxDailyClaims int      `json:"max_daily_claims" validate:"min=0"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	rewardID, err := h.app.Commands.CreateReward.Handle(r.Context(), command.CreateReward{
		UserID:         userID,
		Name:           req.Name,
		Weight:         req.Weight,
		PiecesRequired: req.PiecesRequired,
		PieceValue:     req.PieceValue,
		MaxDailyClaims: req.MaxDailyClaims,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Created(w, r, map[string]any{
		"id":              rewardID,
		"name":            req.Name,
		"weight":          req.Weight,
		"pieces_required": req.PiecesRequired,
	}, "reward created")
}

func (h *Handlers) claimReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rewardID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid reward id"))
		return
	}

	result, err := h.app.Commands.ClaimReward.Handle(r.Context(), command.ClaimReward{
		UserID:   userID,
		RewardID: rewardID,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, map[string]any{
		"reward": map[string]any{
			"name":            result.RewardName,
			"pieces_earned":   result.PiecesEarned,
			"pieces_required": result.PiecesRequired,
		},
	}, "reward claimed")
}

// --- habit logs ---

func (h *Handlers) listHabitLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var habitID *int64
	if v := httputil.GetIntQuery(r, "habit_id", 0); v != 0 {
		id := int64(v)
		habitID = &id
	}
	startDate, err := parseOptionalDate(nonEmptyPtr(httputil.GetStringQuery(r, "start_date", "")))
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid start_date"))
		return
	}
	endDate, err := parseOptionalDate(nonEmptyPtr(httputil.GetStringQuery(r, "end_date", "")))
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid end_date"))
		return
	}

	result, err := h.app.Queries.GetHabitLogs.Handle(r.Context(), query.GetHabitLogs{
		UserID:    userID,
		HabitID:   habitID,
		StartDate: startDate,
		EndDate:   endDate,
		Limit:     httputil.GetIntQuery(r, "limit", 0),
		Offset:    httputil.GetIntQuery(r, "offset", 0),
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(result.Logs))
	for _, l := range result.Logs {
		resp = append(resp, newHabitLogResponse(l))
	}
	httputil.Success(w, r, map[string]any{
		"logs":   resp,
		"limit":  result.Limit,
		"offset": result.Offset,
		"count":  len(resp),
	}, "habit logs retrieved")
}

func (h *Handlers) revertLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	logID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid habit log id"))
		return
	}

	result, err := h.app.Commands.RevertByLogId.Handle(r.Context(), command.RevertByLogId{
		UserID: userID,
		LogID:  logID,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, revertResponse(result), "habit completion reverted")
}

// --- streaks ---

func (h *Handlers) listStreaks(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	streaks, err := h.app.Queries.GetStreaks.Handle(r.Context(), query.GetStreaks{UserID: userID})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(streaks))
	for _, s := range streaks {
		resp = append(resp, map[string]any{
			"habit_id":       s.HabitID,
			"habit_name":     s.Name,
			"current_streak": s.Streak,
		})
	}
	httputil.Success(w, r, map[string]any{"streaks": resp}, "streaks retrieved")
}

func (h *Handlers) getStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	habitID, err := parseIDParam(r, "habit_id")
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid habit id"))
		return
	}

	s, err := h.app.Queries.GetHabitStreak.Handle(r.Context(), query.GetHabitStreak{
		UserID:  userID,
		HabitID: habitID,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, map[string]any{
		"habit_id":       s.HabitID,
		"habit_name":     s.Name,
		"current_streak": s.Streak,
	}, "streak retrieved")
}

// --- response shapes ---

type habitResponse struct {
	HabitID         int64    `json:"id"`
	Name            string   `json:"name"`
	Category        *string  `json:"category"`
	Weight          int      `json:"weight"`
	AllowedSkipDays int      `json:"allowed_skip_days"`
	ExemptWeekdays  []int    `json:"exempt_weekdays"`
	IsActive        bool     `json:"is_active"`
}

func newHabitResponse(hb *habit.Habit) habitResponse {
	return habitResponse{
		HabitID:         hb.HabitID(),
		Name:            hb.Name(),
		Category:        hb.Category(),
		Weight:          hb.Weight(),
		AllowedSkipDays: hb.AllowedSkipDays(),
		ExemptWeekdays:  hb.ExemptWeekdays(),
		IsActive:        hb.IsActive(),
	}
}

func newRewardResponse(rw *reward.Reward, p *progress.Progress) map[string]any {
	resp := map[string]any{
		"id":               rw.RewardID(),
		"name":             rw.Name(),
		"weight":           rw.Weight(),
		"pieces_required":  rw.PiecesRequired(),
		"piece_value":      rw.PieceValue(),
		"max_daily_claims": rw.MaxDailyClaims(),
		"is_active":        rw.IsActive(),
	}
	if p != nil {
		resp["pieces_earned"] = p.PiecesEarned()
		resp["claimed"] = p.Claimed()
	}
	return resp
}

func newHabitLogResponse(l *habitlog.HabitLog) map[string]any {
	return map[string]any{
		"id":                  l.LogID(),
		"habit_id":            l.HabitID(),
		"reward_id":           l.RewardID(),
		"got_reward":          l.GotReward(),
		"streak_count":        l.StreakCount(),
		"total_weight":        l.TotalWeight(),
		"last_completed_date": l.LastCompletedDate().String(),
		"created_at":          l.CreatedAt(),
	}
}

func completionResponse(r command.CompletionResult) map[string]any {
	return map[string]any{
		"habit_confirmed": r.HabitConfirmed,
		"habit_name":      r.HabitName,
		"got_reward":      r.GotReward,
		"reward_name":     r.RewardName,
		"streak":          r.Streak,
		"total_weight":    r.TotalWeight,
		"pieces_earned":   r.PiecesEarned,
		"pieces_required": r.PiecesRequired,
		"claimed":         r.Claimed,
	}
}

func revertResponse(r command.RevertResult) map[string]any {
	return map[string]any{
		"success":         r.Success,
		"habit_name":      r.HabitName,
		"reward_reverted": r.RewardReverted,
		"reward_name":     r.RewardName,
		"pieces_earned":   r.PiecesEarned,
		"pieces_required": r.PiecesRequired,
	}
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseOptionalDate(s *string) (*clock.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := clock.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
