package dto

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quokit/waitlist_api/shared"
)

func errorPaths(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)

	var paths []string
	for _, ve := range FormatValidationErrors(err) {
		paths = append(paths, ve.Path)
	}
	return paths
}

func validInvestor() WaitlistRequest {
	return WaitlistRequest{
		Name:  "Ann Lee",
		Email: "Ann@X.com",
		Role:  shared.RoleInvestor,
		Stage: shared.StageSeed,
	}
}

func TestValidate_BaseFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WaitlistRequest)
		wantErr []string
	}{
		{
			name:   "valid investor",
			mutate: func(r *WaitlistRequest) {},
		},
		{
			name:    "missing name",
			mutate:  func(r *WaitlistRequest) { r.Name = "" },
			wantErr: []string{"name"},
		},
		{
			name:    "name too short",
			mutate:  func(r *WaitlistRequest) { r.Name = "Bo" },
			wantErr: []string{"name"},
		},
		{
			name:    "missing email",
			mutate:  func(r *WaitlistRequest) { r.Email = "" },
			wantErr: []string{"email"},
		},
		{
			name:    "invalid email",
			mutate:  func(r *WaitlistRequest) { r.Email = "not-an-email" },
			wantErr: []string{"email"},
		},
		{
			name:    "missing role",
			mutate:  func(r *WaitlistRequest) { r.Role = "" },
			wantErr: []string{"role"},
		},
		{
			name:    "unknown role",
			mutate:  func(r *WaitlistRequest) { r.Role = "Wizard" },
			wantErr: []string{"role"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validInvestor()
			tt.mutate(&req)

			err := req.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}

			paths := errorPaths(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, paths, want)
			}
		})
	}
}

func TestValidate_RoleConditionalFields(t *testing.T) {
	tests := []struct {
		name    string
		req     WaitlistRequest
		wantErr []string
	}{
		{
			name: "developer needs nothing extra",
			req: WaitlistRequest{
				Name:  "Dev Person",
				Email: "dev@x.com",
				Role:  shared.RoleDeveloper,
			},
		},
		{
			name: "developer with bad project link",
			req: WaitlistRequest{
				Name:        "Dev Person",
				Email:       "dev@x.com",
				Role:        shared.RoleDeveloper,
				ProjectLink: "not a url at all",
			},
			wantErr: []string{"projectLink"},
		},
		{
			name: "compute network missing everything",
			req: WaitlistRequest{
				Name:  "Net Admin",
				Email: "net@x.com",
				Role:  shared.RoleComputeNetwork,
			},
			wantErr: []string{"networkName", "numGPUs"},
		},
		{
			name: "compute network complete",
			req: WaitlistRequest{
				Name:        "Net Admin",
				Email:       "net@x.com",
				Role:        shared.RoleComputeNetwork,
				NetworkName: "Akash",
				NumGPUs:     120,
			},
		},
		{
			name: "gpu provider missing hardware and count",
			req: WaitlistRequest{
				Name:  "Provider One",
				Email: "bo@x.com",
				Role:  shared.RoleGPUProvider,
			},
			wantErr: []string{"hardwareType", "numGPUs"},
		},
		{
			name: "gpu provider complete",
			req: WaitlistRequest{
				Name:         "Provider One",
				Email:        "bo@x.com",
				Role:         shared.RoleGPUProvider,
				HardwareType: []string{"HPC"},
				NumGPUs:      8,
			},
		},
		{
			name: "investor missing stage",
			req: WaitlistRequest{
				Name:  "Ann Lee",
				Email: "ann@x.com",
				Role:  shared.RoleInvestor,
			},
			wantErr: []string{"stage"},
		},
		{
			name: "investor with unknown stage",
			req: WaitlistRequest{
				Name:  "Ann Lee",
				Email: "ann@x.com",
				Role:  shared.RoleInvestor,
				Stage: "Series Z",
			},
			wantErr: []string{"stage"},
		},
		{
			name: "other with short description",
			req: WaitlistRequest{
				Name:            "Someone Else",
				Email:           "other@x.com",
				Role:            shared.RoleOther,
				RoleDescription: "hi",
			},
			wantErr: []string{"roleDescription"},
		},
		{
			name: "other complete",
			req: WaitlistRequest{
				Name:            "Someone Else",
				Email:           "other@x.com",
				Role:            shared.RoleOther,
				RoleDescription: "GPU data center operator",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}

			paths := errorPaths(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, paths, want)
			}
		})
	}
}

func TestValidate_AcceptsEveryInvestorStage(t *testing.T) {
	for _, stage := range shared.InvestorStages() {
		t.Run(stage, func(t *testing.T) {
			req := validInvestor()
			req.Stage = stage
			assert.NoError(t, req.Validate())
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	req := WaitlistRequest{
		Name:  "Bo",
		Email: "bo@x.com",
		Role:  shared.RoleGPUProvider,
	}

	err := req.Validate()
	require.Error(t, err)

	details := FormatValidationErrors(err)
	assert.GreaterOrEqual(t, len(details), 3)

	paths := errorPaths(t, err)
	assert.Contains(t, paths, "name")
	assert.Contains(t, paths, "hardwareType")
	assert.Contains(t, paths, "numGPUs")
}

func TestValidate_FieldsOutsideRoleStayOptional(t *testing.T) {
	// Investor payloads may omit every developer/provider field.
	req := validInvestor()
	assert.NoError(t, req.Validate())

	// And extra fields from another role's set do not fail validation.
	req.ProjectName = "stray"
	assert.NoError(t, req.Validate())
}

func TestFormatValidationErrors_Messages(t *testing.T) {
	req := WaitlistRequest{
		Name:  "Ann Lee",
		Email: "ann@x.com",
		Role:  shared.RoleInvestor,
	}

	err := req.Validate()
	require.Error(t, err)

	details := FormatValidationErrors(err)
	require.Len(t, details, 1)
	assert.Equal(t, "stage", details[0].Path)
	assert.Equal(t, "Stage is required", details[0].Message)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	assert.Nil(t, FormatValidationErrors(assert.AnError))
}

func TestNormalize_Email(t *testing.T) {
	req := validInvestor()
	req.Email = "  Ann@X.com "

	req.Normalize()

	assert.Equal(t, "ann@x.com", req.Email)
}

func TestNormalize_ProjectLink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"scheme-less", "github.com/x", "https://github.com/x"},
		{"already https", "https://github.com/x", "https://github.com/x"},
		{"already http", "http://github.com/x", "http://github.com/x"},
		{"garbage untouched", "not a url at all", "not a url at all"},
		{"empty", "", ""},
		{"whitespace trimmed", "  github.com/x  ", "https://github.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validInvestor()
			req.ProjectLink = tt.in

			req.Normalize()

			assert.Equal(t, tt.want, req.ProjectLink)
		})
	}
}

func TestFlexCount_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want FlexCount
	}{
		{"number", `42`, 42},
		{"numeric string", `"42"`, 42},
		{"padded string", `" 7 "`, 7},
		{"empty string", `""`, 0},
		{"garbage string", `"lots"`, 0},
		{"null", `null`, 0},
		{"float truncates", `3.9`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexCount
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFlexCount_InStruct(t *testing.T) {
	var req WaitlistRequest
	payload := `{"name":"Net Admin","email":"net@x.com","role":"Decentralized Compute Network","networkName":"Akash","numGPUs":"350"}`

	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.Equal(t, FlexCount(350), req.NumGPUs)
	assert.NoError(t, req.Validate())
}

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	req := WaitlistRequest{Role: shared.RoleInvestor, Stage: shared.StageAll}

	err := req.Validate()
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	for _, fe := range verrs {
		assert.NotContains(t, fe.Field(), "Name", "expected json tag names, got struct names")
	}
}
