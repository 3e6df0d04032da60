package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fanzhub/fanzhub/models"
	"github.com/fanzhub/fanzhub/store"
	"github.com/fanzhub/fanzhub/utils"
	"github.com/fanzhub/fanzhub/voting"
)

// VoteController exposes the cast-vote operation and quota/ledger reads.
type VoteController struct {
	engine *voting.Engine
	store  *store.Store
}

// NewVoteController creates a new controller instance.
func NewVoteController(engine *voting.Engine, st *store.Store) *VoteController {
	return &VoteController{engine: engine, store: st}
}

// Cast applies one vote action and returns the authoritative post-state.
func (v *VoteController) Cast(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		TargetType string `json:"target_type" binding:"required"`
		TargetID   uint   `json:"target_id" binding:"required"`
		Direction  string `json:"direction" binding:"required,oneof=up down"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}
	if !models.ValidTargetType(req.TargetType) {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid target type")
		return
	}

	result, err := v.engine.Cast(ctx.Request.Context(), userID, req.TargetType, req.TargetID, voting.Direction(req.Direction))
	if err != nil {
		switch {
		case errors.Is(err, voting.ErrTargetNotFound):
			utils.Error(ctx, http.StatusNotFound, 40460, "target not found")
		case errors.Is(err, voting.ErrTargetTypeMismatch):
			utils.Error(ctx, http.StatusBadRequest, 40062, "target type mismatch")
		case errors.Is(err, voting.ErrVoterNotFound):
			utils.Error(ctx, http.StatusUnauthorized, 40111, "account not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to process vote")
		}
		return
	}

	if !result.Allowed {
		// Normal outcome, not an error: the day's energy is spent.
		utils.Respond(ctx, http.StatusOK, 20060, "daily limit reached, come back tomorrow", result)
		return
	}

	// Target lists are ordered by score; drop their cache on any change.
	utils.InvalidateByPrefix("cache:targets:")

	utils.Success(ctx, result)
}

// QuotaStatus returns today's energy for the authenticated voter.
func (v *VoteController) QuotaStatus(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	status, err := v.engine.QuotaToday(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load quota")
		return
	}
	utils.Success(ctx, status)
}

// MyVotes returns the voter's current ledger rows for today so the client can
// hydrate its optimistic vote state after a reload.
func (v *VoteController) MyVotes(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	targetType := ctx.Query("target_type")
	if targetType != "" && !models.ValidTargetType(targetType) {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid target type")
		return
	}

	day := time.Now().Format("2006-01-02")
	votes, err := v.store.VotesForVoter(ctx.Request.Context(), userID, day, targetType)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load votes")
		return
	}
	utils.Success(ctx, gin.H{"items": votes})
}
