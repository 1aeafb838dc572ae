package auth

import (
	"context"

	"github.com/jhoicas/kiosco-pos-api/internal/application/dto"
	"github.com/jhoicas/kiosco-pos-api/internal/domain"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
	"github.com/jhoicas/kiosco-pos-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase login de vendedor por código de acceso.
type UseCase struct {
	vendorRepo repository.VendorRepository
	jwtCfg     JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(vendorRepo repository.VendorRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{vendorRepo: vendorRepo, jwtCfg: jwtCfg}
}

// Login valida el código de acceso contra el hash bcrypt del vendedor y emite
// un token de sesión. Un vendedor inactivo no puede entrar.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.VendorID == "" || in.AccessCode == "" {
		return nil, domain.ErrInvalidInput
	}
	vendor, err := uc.vendorRepo.GetByID(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil || !vendor.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(vendor.AccessCodeHash), []byte(in.AccessCode)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, vendor.ID, vendor.Name, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:      token,
		VendorID:   vendor.ID,
		VendorName: vendor.Name,
	}, nil
}
