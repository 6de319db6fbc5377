package handlers

import (
	"github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
)

// SkippedBookingResponse запись, не затронутая каскадом
type SkippedBookingResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CascadeResponse итог каскадного изменения статуса
type CascadeResponse struct {
	Scope          string                   `json:"scope"`
	CommitmentID   string                   `json:"commitmentId"`
	TargetID       string                   `json:"targetId"`
	Status         string                   `json:"status"`
	UpdatedIDs     []string                 `json:"updatedIds"`
	Skipped        []SkippedBookingResponse `json:"skipped,omitempty"`
	AlreadyApplied bool                     `json:"alreadyApplied"`
}

// FromCascadeResult конвертирует результат use case в DTO
func FromCascadeResult(r *cascade.Result) *CascadeResponse {
	if r == nil {
		return nil
	}

	resp := &CascadeResponse{
		Scope:          string(r.Scope),
		CommitmentID:   r.CommitmentID,
		TargetID:       r.TargetID,
		Status:         string(r.Status),
		UpdatedIDs:     r.UpdatedIDs,
		AlreadyApplied: r.AlreadyApplied,
	}
	if resp.UpdatedIDs == nil {
		resp.UpdatedIDs = []string{}
	}

	for _, s := range r.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedBookingResponse{
			ID:     s.ID,
			Status: string(s.Status),
		})
	}

	return resp
}
