package domain

import (
	"context"
	"errors"
)

type CreateCompanyRequest struct {
	Name string `json:"name"`
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Service interface {
	CreateCompany(context.Context, CreateCompanyRequest) (Company, error)
	GetCompany(context.Context) (Company, error)
	AddMember(context.Context, AddMemberRequest) (Member, error)
	ListMembers(context.Context) ([]Member, error)
}

var (
	ErrInvalidCompany  = errors.New("invalid_company")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidRole     = errors.New("invalid_role")
	ErrNotFound        = errors.New("not_found")
	ErrDuplicateMember = errors.New("duplicate_member")
)
