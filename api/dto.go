/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the domain
  model from the wire contract.

WIRE SHAPE:
  Success: {"data": <RewardDTO or [RewardDTO]>}
  Failure: {"error": {"message": "...", "details": "..."}}

  RewardDTO: {"availableAt": ISO, "redeemedAt": ISO|null, "expiresAt": ISO}

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/reward-engine/reward"
)

// RewardDTO is the wire representation of a reward.
type RewardDTO struct {
	AvailableAt string  `json:"availableAt"`
	RedeemedAt  *string `json:"redeemedAt"`
	ExpiresAt   string  `json:"expiresAt"`
}

func toRewardDTO(r reward.Reward) RewardDTO {
	dto := RewardDTO{
		AvailableAt: r.AvailableAt.UTC().Format(time.RFC3339),
		ExpiresAt:   r.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if r.RedeemedAt != nil {
		s := r.RedeemedAt.UTC().Format(time.RFC3339)
		dto.RedeemedAt = &s
	}
	return dto
}

func toRewardDTOs(rewards []reward.Reward) []RewardDTO {
	dtos := make([]RewardDTO, len(rewards))
	for i, r := range rewards {
		dtos[i] = toRewardDTO(r)
	}
	return dtos
}

// DataResponse wraps every successful payload.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorResponse wraps every failure payload.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
