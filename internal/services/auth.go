package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "golang.org/x/crypto/bcrypt"
  "gorm.io/gorm"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/permissions"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/requestdata"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type Claims struct {
  UserID      string `json:"user_id"`
  Username    string `json:"username"`
  RoleID      int    `json:"role_id"`
  Permissions []int  `json:"permissions"`
  jwt.RegisteredClaims
}

type AuthService interface {
  RegisterUser(ctx context.Context, user *types.User) error
  LoginUser(ctx context.Context, email, password string) (string, string, *types.User, error)
  LogoutUser(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  baseLog *logger.Logger,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := baseLog.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
  if user == nil {
    return apierr.Validation("missing_user", "no user given")
  }
  user.Email = strings.ToLower(strings.TrimSpace(user.Email))
  user.Username = strings.TrimSpace(user.Username)
  if user.Email == "" {
    return apierr.Validation("missing_email", "an email is required to register")
  }
  if user.Username == "" {
    return apierr.Validation("missing_username", "a username is required to register")
  }
  if user.Password == "" {
    return apierr.Validation("missing_password", "a password is required to register")
  }
  if _, ok := permissions.RolePermissions[user.RoleID]; !ok {
    user.RoleID = permissions.RoleDeveloper
  }

  exists, err := as.userRepo.EmailExists(ctx, nil, user.Email)
  if err != nil {
    return apierr.Storage(fmt.Errorf("check user email: %w", err))
  }
  if exists {
    return apierr.Conflict("email_taken", "email is already in use")
  }

  hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    return apierr.Storage(fmt.Errorf("hash password: %w", err))
  }
  user.Password = string(hashed)
  user.ID = uuid.New()

  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
      return apierr.Storage(fmt.Errorf("create user: %w", err))
    }
    return nil
  })
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, *types.User, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  if email == "" || password == "" {
    return "", "", nil, apierr.Validation("missing_credentials", "email and password are required")
  }

  users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return "", "", nil, apierr.Storage(fmt.Errorf("load user: %w", err))
  }
  if len(users) == 0 {
    return "", "", nil, apierr.Forbidden("invalid_credentials", "invalid email or password")
  }
  user := users[0]

  if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
    return "", "", nil, apierr.Forbidden("invalid_credentials", "invalid email or password")
  }

  var accessToken, refreshToken string
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    accessToken, err = as.generateAccessToken(user)
    if err != nil {
      return apierr.Storage(fmt.Errorf("generate access token: %w", err))
    }
    refreshToken = uuid.New().String()

    token := &types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{token}); err != nil {
      return apierr.Storage(fmt.Errorf("create user token: %w", err))
    }
    if err := as.userRepo.SetLastLogin(ctx, tx, user.ID); err != nil {
      return apierr.Storage(fmt.Errorf("set last login: %w", err))
    }
    return nil
  })
  if err != nil {
    return "", "", nil, err
  }

  return accessToken, refreshToken, user, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.TokenString == "" {
    return apierr.Forbidden("unauthenticated", "no session in context")
  }

  tokens, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{rd.TokenString})
  if err != nil {
    return apierr.Storage(fmt.Errorf("load session: %w", err))
  }
  if len(tokens) == 0 {
    return nil
  }

  return as.userTokenRepo.DeleteByIDs(ctx, nil, []uuid.UUID{tokens[0].ID})
}

// SetContextFromToken verifies the JWT, confirms a live session row and puts
// the actor's identity and permission set on the context for downstream
// services.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  claims := &Claims{}
  token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil || !token.Valid {
    return ctx, fmt.Errorf("invalid or expired token")
  }

  userID, err := uuid.Parse(claims.UserID)
  if err != nil {
    return ctx, fmt.Errorf("invalid user id in token")
  }

  sessions, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
  if err != nil {
    return ctx, fmt.Errorf("validate session: %w", err)
  }
  if len(sessions) == 0 || sessions[0].ExpiresAt.Before(time.Now()) {
    return ctx, fmt.Errorf("session expired or invalid")
  }

  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    Username:    claims.Username,
    Permissions: claims.Permissions,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  now := time.Now()
  claims := &Claims{
    UserID:      user.ID.String(),
    Username:    user.Username,
    RoleID:      user.RoleID,
    Permissions: permissions.RolePermissions[user.RoleID],
    RegisteredClaims: jwt.RegisteredClaims{
      IssuedAt:  jwt.NewNumericDate(now),
      ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
      Subject:   user.ID.String(),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}
