package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quokit/waitlist_api/shared"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json field names so error paths match the wire payload.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("waitlist_email", validateEmail)
	validate.RegisterValidation("waitlist_role", validateRole)
	validate.RegisterValidation("project_url", validateProjectURL)
	validate.RegisterStructValidation(validateWaitlistRequest, WaitlistRequest{})
}

func GetValidator() *validator.Validate {
	return validate
}

func validateEmail(fl validator.FieldLevel) bool {
	return EmailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range shared.Roles() {
		if role == r {
			return true
		}
	}
	return false
}

func validateProjectURL(fl validator.FieldLevel) bool {
	return urlPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateWaitlistRequest enforces the role-conditional required fields.
// Fields outside the declared role's set stay optional.
func validateWaitlistRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(WaitlistRequest)

	switch req.Role {
	case shared.RoleComputeNetwork:
		if len(strings.TrimSpace(req.NetworkName)) < 2 {
			sl.ReportError(req.NetworkName, "networkName", "NetworkName", "network_name", "")
		}
		if req.NumGPUs < 1 {
			sl.ReportError(req.NumGPUs, "numGPUs", "NumGPUs", "num_gpus", "")
		}

	case shared.RoleGPUProvider:
		if len(req.HardwareType) == 0 {
			sl.ReportError(req.HardwareType, "hardwareType", "HardwareType", "hardware_type", "")
		}
		if req.NumGPUs < 1 {
			sl.ReportError(req.NumGPUs, "numGPUs", "NumGPUs", "num_gpus", "")
		}

	case shared.RoleInvestor:
		stage := strings.TrimSpace(req.Stage)
		if stage == "" {
			sl.ReportError(req.Stage, "stage", "Stage", "stage", "")
			return
		}
		valid := false
		for _, s := range shared.InvestorStages() {
			if stage == s {
				valid = true
				break
			}
		}
		if !valid {
			sl.ReportError(req.Stage, "stage", "Stage", "stage_oneof", "")
		}

	case shared.RoleOther:
		if len(strings.TrimSpace(req.RoleDescription)) < 5 {
			sl.ReportError(req.RoleDescription, "roleDescription", "RoleDescription", "role_description", "")
		}
	}
}

type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "min":
				message = "Name must be at least " + fieldError.Param() + " characters"
			case "waitlist_email":
				message = "Please enter a valid email"
			case "waitlist_role":
				message = "Role must be one of: " + strings.Join(shared.Roles(), ", ")
			case "project_url":
				message = "Enter a valid URL"
			case "network_name":
				message = "Network Name is required"
			case "num_gpus":
				message = "Number of GPUs is required"
			case "hardware_type":
				message = "At least one hardware type must be selected"
			case "stage":
				message = "Stage is required"
			case "stage_oneof":
				message = "Stage must be one of: " + strings.Join(shared.InvestorStages(), ", ")
			case "role_description":
				message = "Please describe your role"
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Path:    fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}
