package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Monetization modes for a project
const (
	MonetizationFree       = "free"
	MonetizationBounty     = "bounty"
	MonetizationUnlockable = "unlockable"
)

// User represents a marketplace account
type User struct {
	ID            int64      `json:"id"`
	PrivyID       string     `json:"privy_id,omitempty"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	WalletAddress string     `json:"wallet_address,omitempty"`
	Username      string     `json:"username"`
	Bio           string     `json:"bio,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	CreatedAt     *Timestamp `json:"created_at,omitempty"`
	UpdatedAt     *Timestamp `json:"updated_at,omitempty"`
}

// Project represents an in-progress music work listed for collaboration
type Project struct {
	ID                int64          `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Genre             string         `json:"genre"`
	BPM               *int           `json:"bpm,omitempty"`
	Key               string         `json:"key,omitempty"`
	CollaborationNeed RoleList       `json:"collaboration_needs"`
	MonetizationType  string         `json:"monetization_type"`
	BountyAmount      *float64       `json:"bounty_amount,omitempty"`
	BountyDeadline    *Timestamp     `json:"bounty_deadline,omitempty"`
	IsUnlockable      bool           `json:"is_unlockable"`
	UnlockPrice       *float64       `json:"unlock_price,omitempty"`
	Status            string         `json:"status,omitempty"`
	Creator           *User          `json:"creator,omitempty"`
	CollaboratorCount int            `json:"collaborator_count"`
	CommentCount      int            `json:"comment_count"`
	Collaborators     []Collaborator `json:"collaborators,omitempty"`
	Files             []ProjectFile  `json:"files,omitempty"`
	Comments          []Comment      `json:"comments,omitempty"`
	CreatedAt         *Timestamp     `json:"created_at,omitempty"`
	UpdatedAt         *Timestamp     `json:"updated_at,omitempty"`
}

// Comment represents a comment on a project
type Comment struct {
	ID        int64      `json:"id"`
	ProjectID int64      `json:"project_id"`
	UserID    int64      `json:"user_id"`
	Content   string     `json:"content"`
	User      *User      `json:"user,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`

	// LocalTag marks an optimistic entry not yet acknowledged by the
	// backend. Never serialized.
	LocalTag string `json:"-"`
}

// ProjectFile represents an uploaded file attached to a project
type ProjectFile struct {
	ID               int64      `json:"id"`
	ProjectID        int64      `json:"project_id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename,omitempty"`
	FileType         string     `json:"file_type,omitempty"`
	FileSize         *int64     `json:"file_size,omitempty"`
	IsStem           bool       `json:"is_stem,omitempty"`
	UploadedBy       int64      `json:"uploaded_by"`
	User             *User      `json:"user,omitempty"`
	CreatedAt        *Timestamp `json:"created_at,omitempty"`
}

// Collaborator represents a collaboration request on a project
type Collaborator struct {
	ID                     int64      `json:"id"`
	ProjectID              int64      `json:"project_id"`
	UserID                 int64      `json:"user_id"`
	Role                   string     `json:"role"`
	Status                 string     `json:"status"`
	ContributionPercentage *float64   `json:"contribution_percentage,omitempty"`
	User                   *User      `json:"user,omitempty"`
	CreatedAt              *Timestamp `json:"created_at,omitempty"`
}

// RoleList is the set of collaboration roles a project is looking for.
// The backend stores it as a JSON-encoded string but some endpoints return
// it as a native array; both decode to the same value. Anything
// unparseable decodes to empty rather than failing the whole record.
type RoleList []string

func (r *RoleList) UnmarshalJSON(data []byte) error {
	*r = nil

	var roles []string
	if err := json.Unmarshal(data, &roles); err == nil {
		*r = roles
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &roles); err != nil {
		return nil
	}
	*r = roles
	return nil
}

func (r RoleList) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(r))
}

// Contains reports whether the list includes the given role
func (r RoleList) Contains(role string) bool {
	for _, have := range r {
		if have == role {
			return true
		}
	}
	return false
}

// Timestamp wraps time.Time to accept the backend's naive isoformat
// strings ("2006-01-02T15:04:05.999999") as well as RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// UsernameFromEmail derives a display name from an email address, falling
// back to the tail of the identity-provider id when no email is linked.
func UsernameFromEmail(email, providerID string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	if len(providerID) > 8 {
		providerID = providerID[len(providerID)-8:]
	}
	if providerID == "" {
		return "anonymous"
	}
	return "user_" + providerID
}
