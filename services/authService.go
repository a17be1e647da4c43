package services

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resto-api/dtos"
	"resto-api/models"
	"resto-api/utils/token"
)

type AuthService interface {
	Login(input dtos.LoginInput) (*dtos.AuthResponse, error)
}

type authService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) AuthService {
	return &authService{db: db}
}

func (s *authService) Login(input dtos.LoginInput) (*dtos.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", input.Username).First(&user).Error; err != nil {
		return nil, models.NotFoundf("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, &models.PermissionError{Msg: "incorrect password"}
	}

	tok, err := token.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, models.Externalf(err, "failed to generate token")
	}

	return &dtos.AuthResponse{
		Message: "Login successful",
		Token:   tok,
		Role:    user.Role,
	}, nil
}
