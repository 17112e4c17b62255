package transport

import "marketing_analytics_backend/internal/mappings/repository"

// Campaign crosswalk

type CreateCampaignMappingRequest struct {
	RawSource    string `json:"rawSource" validate:"required,min=1,max=200"`
	CampaignName string `json:"campaignName" validate:"required,min=1,max=200"`
}

type UpdateCampaignMappingRequest struct {
	CampaignName string `json:"campaignName" validate:"required,min=1,max=200"`
}

type CampaignMappingResponse struct {
	RawSource    string `json:"rawSource"`
	CampaignName string `json:"campaignName"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

type CampaignMappingListResponse struct {
	Items []CampaignMappingResponse `json:"items"`
	Total int                       `json:"total"`
}

// Status table

type CreateStatusMappingRequest struct {
	Status                 string `json:"status" validate:"required,min=1,max=200"`
	IsApplicationReceived  int    `json:"isApplicationReceived" validate:"min=0,max=1"`
	IsApplicationProcessed int    `json:"isApplicationProcessed" validate:"min=0,max=1"`
	IsApplicationApproved  int    `json:"isApplicationApproved" validate:"min=0,max=1"`
	IsFuture               int    `json:"isFuture" validate:"min=0,max=1"`
}

type UpdateStatusMappingRequest struct {
	IsApplicationReceived  *int `json:"isApplicationReceived,omitempty" validate:"omitempty,min=0,max=1"`
	IsApplicationProcessed *int `json:"isApplicationProcessed,omitempty" validate:"omitempty,min=0,max=1"`
	IsApplicationApproved  *int `json:"isApplicationApproved,omitempty" validate:"omitempty,min=0,max=1"`
	IsFuture               *int `json:"isFuture,omitempty" validate:"omitempty,min=0,max=1"`
}

type StatusMappingResponse struct {
	Status                 string `json:"status"`
	IsApplicationReceived  int    `json:"isApplicationReceived"`
	IsApplicationProcessed int    `json:"isApplicationProcessed"`
	IsApplicationApproved  int    `json:"isApplicationApproved"`
	IsFuture               int    `json:"isFuture"`
	CreatedAt              string `json:"createdAt"`
	UpdatedAt              string `json:"updatedAt"`
}

type StatusMappingListResponse struct {
	Items []StatusMappingResponse `json:"items"`
	Total int                     `json:"total"`
}

// FromCampaignMapping converts a repository row to its response shape.
func FromCampaignMapping(m repository.CampaignMapping) CampaignMappingResponse {
	return CampaignMappingResponse{
		RawSource:    m.RawSource,
		CampaignName: m.CampaignName,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromStatusMapping converts a repository row to its response shape.
func FromStatusMapping(m repository.StatusMapping) StatusMappingResponse {
	return StatusMappingResponse{
		Status:                 m.Status,
		IsApplicationReceived:  m.IsApplicationReceived,
		IsApplicationProcessed: m.IsApplicationProcessed,
		IsApplicationApproved:  m.IsApplicationApproved,
		IsFuture:               m.IsFuture,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}
