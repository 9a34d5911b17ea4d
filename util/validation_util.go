// api/util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/vidora-labs/vidora/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateUser(user model.User) error {
	if user.Name == "" {
		return fmt.Errorf("user name cannot be empty")
	}
	if !strings.Contains(user.Email, "@") {
		return fmt.Errorf("user email is not valid")
	}
	if user.QuotaLimit < 0 {
		return fmt.Errorf("quota limit cannot be negative")
	}
	// Add more validation rules as needed
	return nil
}

func (v *ValidationUtil) ValidateCampaign(campaign model.Campaign) error {
	if campaign.Name == "" {
		return fmt.Errorf("campaign name cannot be empty")
	}
	if campaign.OwnerID == "" {
		return fmt.Errorf("campaign must have an owner")
	}
	switch campaign.Cadence {
	case "", "daily", "weekly", "manual":
	default:
		return fmt.Errorf("campaign cadence must be 'daily', 'weekly' or 'manual'")
	}
	switch campaign.Status {
	case "", "active", "paused", "archived":
	default:
		return fmt.Errorf("campaign status must be 'active', 'paused' or 'archived'")
	}
	return nil
}

func (v *ValidationUtil) ValidateContent(content model.ContentItem) error {
	if content.Title == "" {
		return fmt.Errorf("content title cannot be empty")
	}
	if content.CampaignID == "" {
		return fmt.Errorf("content must belong to a campaign")
	}
	return nil
}

func (v *ValidationUtil) ValidateRenderRequest(kind string, req model.RenderRequest) error {
	switch kind {
	case "video", "audio", "script", "remotion":
	default:
		return fmt.Errorf("unknown render kind: %s", kind)
	}
	if kind != "script" && req.ContentID == "" && req.Script == "" {
		return fmt.Errorf("render request needs a content_id or an inline script")
	}
	return nil
}
