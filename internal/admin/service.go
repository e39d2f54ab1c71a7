package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pgms/internal/api"
	"pgms/internal/auth"
	"pgms/internal/logger"
	"pgms/internal/subscription"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
)

// PlanLookup resolves a plan name against the active catalog.
type PlanLookup interface {
	FindByName(ctx context.Context, name string) (*subscription.PlanRecord, error)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Profile(ctx context.Context, adminID int64) (*Profile, error)
	RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error)
}

type service struct {
	repo      Repository
	plans     PlanLookup
	jwtSecret string
	now       func() time.Time
}

func NewService(repo Repository, plans PlanLookup, jwtSecret string) Service {
	return &service{
		repo:      repo,
		plans:     plans,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	var assigned *string
	if name := strings.TrimSpace(req.SubscriptionPlan); name != "" {
		plan, err := s.plans.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, subscription.ErrPlanNotFound) {
				return nil, api.NewValidationError("subscription_plan", "unknown plan")
			}
			return nil, fmt.Errorf("lookup plan %q: %w", name, err)
		}
		assigned = &plan.Name
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.Create(ctx, NewAdmin{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		PasswordHash:     passwordHash,
		Phone:            optional(req.Phone),
		HostelName:       optional(req.HostelName),
		SubscriptionPlan: assigned,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("admin registered", "admin_id", admin.ID, "assigned_plan", req.SubscriptionPlan)
	return s.issue(admin)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(admin.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(admin)
}

func (s *service) Profile(ctx context.Context, adminID int64) (*Profile, error) {
	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	state := admin.SubscriptionState()
	now := s.now()
	return &Profile{
		Admin:   *admin,
		Status:  state.Status(now),
		MustPay: state.MustPay(),
		Expired: state.IsExpired(now),
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefresh, err)
	}

	admin, err := s.repo.FindByID(ctx, claims.AdminID)
	if err != nil {
		return nil, err
	}

	accessToken, err := auth.GenerateAccessToken(admin.ID, admin.Email, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &RefreshResponse{AccessToken: accessToken, Admin: *admin}, nil
}

func (s *service) issue(admin *Admin) (*LoginResponse, error) {
	accessToken, refreshToken, err := auth.GenerateTokens(admin.ID, admin.Email, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Admin:        *admin,
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
