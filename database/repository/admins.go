package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell/database"
	"github.com/inkwell/pkg/auth"
	"github.com/inkwell/pkg/fault"
	"github.com/inkwell/pkg/gorm"
)

type Admins struct {
	DB *database.Connection
}

func (a Admins) FindBy(ctx context.Context, username string) *database.Admin {
	admin := database.Admin{}

	result := a.DB.Sql().WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&admin)

	if gorm.HasDbIssues(result.Error) {
		return nil
	}

	if result.RowsAffected > 0 {
		return &admin
	}

	return nil
}

func (a Admins) FindByUUID(ctx context.Context, adminUUID string) *database.Admin {
	admin := database.Admin{}

	result := a.DB.Sql().WithContext(ctx).
		Where("uuid = ?", adminUUID).
		First(&admin)

	if gorm.HasDbIssues(result.Error) {
		return nil
	}

	if result.RowsAffected > 0 {
		return &admin
	}

	return nil
}

func (a Admins) Create(ctx context.Context, attrs database.AdminAttrs) (*database.Admin, error) {
	password, err := auth.NewPassword(attrs.Password)
	if err != nil {
		return nil, fault.NewInternal(fmt.Errorf("issue hashing password for [%s]: %w", attrs.Username, err))
	}

	role := strings.TrimSpace(attrs.Role)
	if role == "" {
		role = database.RoleAdmin
	}

	admin := database.Admin{
		UUID:         uuid.NewString(),
		Username:     strings.ToLower(strings.TrimSpace(attrs.Username)),
		Email:        strings.ToLower(strings.TrimSpace(attrs.Email)),
		PasswordHash: password.GetHash(),
		Role:         role,
		IsActive:     true,
	}

	if result := a.DB.Sql().WithContext(ctx).Create(&admin); result.Error != nil {
		if gorm.IsDuplicated(result.Error) {
			return nil, fault.NewConflict("an admin with this username or email already exists")
		}

		return nil, fault.NewInternal(fmt.Errorf("issue creating admin [%s]: %w", attrs.Username, result.Error))
	}

	return &admin, nil
}
