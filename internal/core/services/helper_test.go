package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

func TestHelperService_Salesforce(t *testing.T) {
	svc := NewHelperService(nil)

	tests := []struct {
		question string
		prefix   string
	}{
		{"", "Welcome to the Amazon Q Business Salesforce Connector!"},
		{"Where do I put my PASSWORD?", "For Salesforce credentials"},
		{"what is a consumer key", "The Connected App will be created automatically"},
		{"how do I reset my security token", "To get your security token"},
		{"login keeps failing", "Common issues"},
		{"tell me a joke", "Welcome to the Amazon Q Business Salesforce Connector!"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			resp, err := svc.Help(context.Background(), driving.HelpRequest{Topic: driving.HelpSalesforce, Question: tt.question})
			require.NoError(t, err)
			assert.Contains(t, resp.Message, tt.prefix)
			assert.Len(t, resp.Requirements, 4)
			assert.NotEmpty(t, resp.Instructions)
			assert.Len(t, resp.NextSteps, 3)
		})
	}
}

func TestHelperService_EscapesQuestion(t *testing.T) {
	svc := NewHelperService(nil)

	for _, topic := range []string{driving.HelpServiceNow, driving.HelpSharePoint, driving.HelpZendesk} {
		t.Run(topic, func(t *testing.T) {
			resp, err := svc.Help(context.Background(), driving.HelpRequest{
				Topic:    topic,
				Question: `<script>alert("x")</script>`,
			})
			require.NoError(t, err)
			assert.NotContains(t, resp.Message, "<script>")
			assert.Contains(t, resp.Message, "Question: &lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
			assert.Empty(t, resp.Instructions)
		})
	}
}

func TestHelperService_UnknownTopic(t *testing.T) {
	svc := NewHelperService(nil)

	_, err := svc.Help(context.Background(), driving.HelpRequest{Topic: "jira"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, domain.AsError(err).StatusCode())
}
