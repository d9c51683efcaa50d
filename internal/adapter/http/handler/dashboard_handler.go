package handler

import (
	"math"
	"strconv"

	"cross-chain-pool/internal/adapter/http/dto"
	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles reporting endpoints over the recorded history.
type DashboardHandler struct {
	reportingSvc ports.ReportingService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reportingSvc ports.ReportingService) *DashboardHandler {
	return &DashboardHandler{reportingSvc: reportingSvc}
}

// GetStats handles GET /api/v1/chains/:chain/stats.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	period := c.DefaultQuery("period", "all")
	stats, err := h.reportingSvc.GetSwapStats(c.Request.Context(), c.Param("chain"), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SwapStatsResponse{
		Initiated:      stats.Initiated,
		Completed:      stats.Completed,
		Refunded:       stats.Refunded,
		LocksPrepared:  stats.LocksPrepared,
		LocksCompleted: stats.LocksCompleted,
		LocksRefunded:  stats.LocksRefunded,
		VolumeLocked:   stats.VolumeLocked,
		VolumeReleased: stats.VolumeReleased,
	})
}

// ListHistory handles GET /api/v1/chains/:chain/history.
func (h *DashboardHandler) ListHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.HistoryListParams{
		Chain:    c.Param("chain"),
		Page:     page,
		PageSize: pageSize,
	}

	if t := c.Query("type"); t != "" {
		evType := domain.EventType(t)
		params.Type = &evType
	}
	if hl := c.Query("hash_lock"); hl != "" {
		params.HashLock = &hl
	}
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &v
		}
	}

	events, total, err := h.reportingSvc.ListHistory(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, toEventResponse(&events[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	response.OK(c, dto.HistoryListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// toEventResponse converts a recorded event to its DTO.
func toEventResponse(ev *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:        ev.ID.String(),
		Chain:     ev.Chain,
		Type:      string(ev.Type),
		Height:    ev.Height,
		SwapID:    ev.SwapID,
		HashLock:  ev.HashLock,
		Sender:    string(ev.Sender),
		Recipient: string(ev.Recipient),
		Amount:    ev.Amount,
		TimeLock:  ev.TimeLock,
		Rate:      ev.Rate,
		CreatedAt: ev.At.Format("2006-01-02T15:04:05Z07:00"),
	}
}
