package constants

import "time"

// Context keys set by middleware
const (
	ContextKeyMemberID    = "member_id"
	ContextKeyMemberEmail = "member_email"
	ContextKeyRequestID   = "request_id"
)

// Cookies and sessions
const (
	AccessTokenCookieName = "access_token"
	OAuthSessionName      = "github_oauth_state"
	OAuthStateKey         = "state"
	OAuthStateMaxAge      = 10 * time.Minute
	SessionTokenTTL       = 24 * time.Hour
)

// Permission keys
const (
	PermissionActivityCreate = "activity:create"
	PermissionActivityEdit   = "activity:edit"
	PermissionActivityDelete = "activity:delete"
	PermissionActivityView   = "activity:view"
	PermissionActivityManage = "activity:manage"
)

// Activity slug bounds
const (
	MinSlugLength = 3
	MaxSlugLength = 64
)

const RequestIDHeader = "X-Request-Id"
