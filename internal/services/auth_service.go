package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/confcfp/cfp-server/internal/constants"
	"github.com/confcfp/cfp-server/internal/models"
	"github.com/confcfp/cfp-server/internal/repository"
	"github.com/confcfp/cfp-server/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrInvalidOAuthState    = errors.New("invalid state")
	ErrNoUsableEmail        = errors.New("unable to obtain a valid email address from GitHub")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrMemberNotFound       = errors.New("member not found")
)

// SessionClaims are carried by the signed session token.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService handles the GitHub login and session tokens.
type AuthService struct {
	memberRepo repository.MemberRepository
	github     GitHubProvider
	jwtSecret  []byte
	tokenTTL   time.Duration
	log        *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(memberRepo repository.MemberRepository, github GitHubProvider, jwtSecret string, log *zap.Logger) *AuthService {
	return &AuthService{
		memberRepo: memberRepo,
		github:     github,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   constants.SessionTokenTTL,
		log:        log,
		now:        time.Now,
	}
}

// GitHubCallbackInput carries the callback query and the state stored at initiation.
type GitHubCallbackInput struct {
	Code        string
	State       string
	StoredState string
}

// LoginResult is a successful login.
type LoginResult struct {
	AccessToken string
	Member      *models.Member
}

// BeginGitHubLogin returns a fresh state and the authorization URL carrying it.
// The caller keeps the state until the callback.
func (s *AuthService) BeginGitHubLogin() (state, authURL string, err error) {
	state, err = utils.GenerateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}
	return state, s.github.AuthCodeURL(state), nil
}

// LoginWithGitHub completes the OAuth callback and issues a session token.
func (s *AuthService) LoginWithGitHub(ctx context.Context, input GitHubCallbackInput) (*LoginResult, error) {
	if input.State == "" || input.StoredState == "" ||
		subtle.ConstantTimeCompare([]byte(input.State), []byte(input.StoredState)) != 1 {
		return nil, ErrInvalidOAuthState
	}

	result, err := s.loginWithGitHub(ctx, input.Code)
	if err != nil {
		if errors.Is(err, ErrNoUsableEmail) {
			return nil, err
		}

		s.log.Error("GitHub login error", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	return result, nil
}

func (s *AuthService) loginWithGitHub(ctx context.Context, code string) (*LoginResult, error) {
	accessToken, err := s.github.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	var (
		profile  *GitHubProfile
		emails   []GitHubEmail
		accounts []GitHubSocialAccount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.github.FetchProfile(gctx, accessToken)
		return err
	})
	g.Go(func() error {
		var err error
		emails, err = s.github.FetchEmails(gctx, accessToken)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.github.FetchSocialAccounts(gctx, accessToken)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	email := resolveEmail(profile, emails)
	if email == "" {
		return nil, ErrNoUsableEmail
	}

	member, err := s.upsertGitHubMember(email, profile, accounts)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueToken(member)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: token, Member: member}, nil
}

// upsertGitHubMember resolves the member by GitHub identity first, then by
// email, and creates it on first login. A member found by email gets GitHub
// linked. Profile fields of existing members are not touched.
func (s *AuthService) upsertGitHubMember(email string, profile *GitHubProfile, accounts []GitHubSocialAccount) (*models.Member, error) {
	providerUserID := strconv.FormatInt(profile.ID, 10)

	// The GitHub id is stable; the email on the account may have changed.
	linked, err := s.memberRepo.FindByProvider(models.ProviderGitHub, providerUserID, "Providers")
	if err == nil {
		return linked, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find member by identity: %w", err)
	}

	member, err := s.memberRepo.FindByEmail(email, "Providers")
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if member == nil {
		displayName := profile.Login
		if profile.Name != nil && *profile.Name != "" {
			displayName = *profile.Name
		}

		links := make([]models.MemberLink, 0, len(accounts)+1)
		links = append(links, models.MemberLink{Type: models.ProviderGitHub, URL: profile.HTMLURL})
		for _, account := range accounts {
			links = append(links, models.MemberLink{Type: account.Provider, URL: account.URL})
		}

		member = &models.Member{
			Email:        email,
			DisplayName:  displayName,
			AvatarURL:    profile.AvatarURL,
			Organization: profile.Company,
			Bio:          profile.Bio,
			Location:     profile.Location,
			Providers: []models.MemberProvider{
				{Provider: models.ProviderGitHub, ProviderUserID: providerUserID},
			},
			Links: links,
		}

		if err := s.memberRepo.CreateWithIdentity(member); err != nil {
			return nil, fmt.Errorf("failed to create member: %w", err)
		}

		s.log.Info("member created from GitHub login", zap.String("member_id", member.ID))
		return member, nil
	}

	if !member.HasProvider(models.ProviderGitHub) {
		provider := &models.MemberProvider{
			MemberID:       member.ID,
			Provider:       models.ProviderGitHub,
			ProviderUserID: providerUserID,
		}
		if err := s.memberRepo.AddProvider(provider); err != nil {
			return nil, fmt.Errorf("failed to link GitHub account: %w", err)
		}
		member.Providers = append(member.Providers, *provider)

		s.log.Info("GitHub account linked to member", zap.String("member_id", member.ID))
	}

	return member, nil
}

func resolveEmail(profile *GitHubProfile, emails []GitHubEmail) string {
	if profile.Email != nil && *profile.Email != "" {
		return *profile.Email
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email
		}
	}
	return ""
}

// IssueToken signs a session token for the member.
func (s *AuthService) IssueToken(member *models.Member) (string, error) {
	now := s.now()
	claims := SessionClaims{
		Email: member.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken validates a session token and returns its claims.
func (s *AuthService) ParseToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetMember retrieves a member by ID with providers and links.
func (s *AuthService) GetMember(id string) (*models.Member, error) {
	member, err := s.memberRepo.FindByID(id, "Providers", "Links")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return member, nil
}
