package mapper

import (
	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToModel(e *entity.User) *model.User {
	return &model.User{
		Username:      e.Username,
		StudentNumber: e.StudentNumber,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Role:          string(e.Role),
		CreatedAt:     e.CreatedAt,
	}
}

func (m *UserMapper) ToEntity(mo *model.User) *entity.User {
	role := entity.UserRole(mo.Role)
	if role == "" {
		role = entity.UserRoleViewer
	}
	updatedAt := mo.UpdatedAt
	return &entity.User{
		Username:      mo.Username,
		StudentNumber: mo.StudentNumber,
		FirstName:     mo.FirstName,
		LastName:      mo.LastName,
		Role:          role,
		CreatedAt:     mo.CreatedAt,
		UpdatedAt:     &updatedAt,
	}
}
