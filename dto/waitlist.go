package dto

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	// EmailPattern is the syntactic check applied both by the validator and
	// again by the intake pipeline after normalization.
	EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	urlPattern = regexp.MustCompile(`^(https?://)?([\w-]+\.)+[\w-]+(/[\w\-./?%&=]*)?$`)
)

// FlexCount accepts either a JSON number or a numeric string, matching what
// the signup form sends from free-text inputs. Anything non-numeric decodes
// to zero and is caught by role validation.
type FlexCount int

func (f *FlexCount) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*f = FlexCount(int(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexCount(n)
	default:
		*f = 0
	}
	return nil
}

// WaitlistRequest is the role-discriminated signup payload. Base fields are
// validated by tag; role-conditional requirements are enforced by the
// struct-level validation registered in validator.go.
type WaitlistRequest struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"required,waitlist_email"`
	Role  string `json:"role" validate:"required,waitlist_role"`

	// Developer
	ProjectName string `json:"projectName,omitempty"`
	ProjectLink string `json:"projectLink,omitempty" validate:"omitempty,project_url"`

	// Decentralized Compute Network
	NetworkName string `json:"networkName,omitempty"`

	// Compute network + GPU provider
	NumGPUs FlexCount `json:"numGPUs,omitempty"`

	// GPU provider
	HardwareType []string `json:"hardwareType,omitempty"`

	// Investor
	Stage string `json:"stage,omitempty"`

	// Other
	RoleDescription string `json:"roleDescription,omitempty"`

	// Optional for all roles
	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
}

func (r WaitlistRequest) Validate() error {
	return GetValidator().Struct(r)
}

// Normalize trims and lowercases the identity fields and gives scheme-less
// project links an https:// prefix. Prefixing only happens when the link
// already matches the URL shape, never as a repair of garbage input.
func (r *WaitlistRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	link := strings.TrimSpace(r.ProjectLink)
	if link != "" && urlPattern.MatchString(link) &&
		!strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		link = "https://" + link
	}
	r.ProjectLink = link
}

// ClientMeta is the advisory request metadata captured alongside a
// submission. It never participates in authorization decisions.
type ClientMeta struct {
	IP        string
	UserAgent string
	Country   string
}

type WaitlistResponse struct {
	Success   bool   `json:"success"`
	ID        string `json:"id"`
	Remaining int    `json:"remaining"`
}

type WaitlistErrorResponse struct {
	Error        string            `json:"error"`
	Details      []ValidationError `json:"details,omitempty"`
	ReceivedData interface{}       `json:"receivedData,omitempty"`
}

type WaitlistStatsResponse struct {
	Total  int64            `json:"total"`
	ByRole map[string]int64 `json:"byRole"`
}
