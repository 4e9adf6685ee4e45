package driving

import "context"

// Helper topics.
const (
	HelpSalesforce = "salesforce"
	HelpServiceNow = "servicenow"
	HelpSharePoint = "sharepoint"
	HelpZendesk    = "zendesk"
)

// HelperService answers setup questions with static guidance.
type HelperService interface {
	Help(ctx context.Context, req HelpRequest) (*HelpResponse, error)
}

// HelpRequest carries the topic and the user's question.
type HelpRequest struct {
	Topic    string `json:"-"`
	Question string `json:"question"`
}

// HelpResponse is the guidance text plus optional structured steps.
type HelpResponse struct {
	Message      string   `json:"message"`
	Instructions []string `json:"instructions,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	NextSteps    []string `json:"nextSteps,omitempty"`
}
