package dto

import "github.com/confcfp/cfp-server/internal/models"

// MemberLinkDTO represents a profile link in API responses
type MemberLinkDTO struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// MemberDTO represents the signed-in member
type MemberDTO struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	DisplayName  string          `json:"displayName"`
	AvatarURL    string          `json:"avatarUrl"`
	Organization *string         `json:"organization"`
	Bio          *string         `json:"bio"`
	Location     *string         `json:"location"`
	Providers    []string        `json:"providers"`
	Links        []MemberLinkDTO `json:"links"`
}

// ToMemberDTO converts a Member model to MemberDTO
func ToMemberDTO(member models.Member) MemberDTO {
	dto := MemberDTO{
		ID:           member.ID,
		Email:        member.Email,
		DisplayName:  member.DisplayName,
		AvatarURL:    member.AvatarURL,
		Organization: member.Organization,
		Bio:          member.Bio,
		Location:     member.Location,
		Providers:    make([]string, len(member.Providers)),
		Links:        make([]MemberLinkDTO, len(member.Links)),
	}
	for i, p := range member.Providers {
		dto.Providers[i] = p.Provider
	}
	for i, l := range member.Links {
		dto.Links[i] = MemberLinkDTO{Type: l.Type, URL: l.URL}
	}
	return dto
}
