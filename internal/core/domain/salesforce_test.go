package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesforceCallbackURL(t *testing.T) {
	tests := []struct {
		instance string
		want     string
	}{
		{"https://acme.my.salesforce.com", "https://login.salesforce.com/services/oauth2/token"},
		{"https://acme--dev.sandbox.my.salesforce.com", "https://test.salesforce.com/services/oauth2/token"},
		{"https://test.salesforce.com", "https://test.salesforce.com/services/oauth2/token"},
		{"https://ACME--UAT.SANDBOX.my.salesforce.com", "https://test.salesforce.com/services/oauth2/token"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SalesforceCallbackURL(tt.instance), tt.instance)
	}
}

func TestAppUniqueName(t *testing.T) {
	assert.Equal(t, "Q_Business_Connector_1a2b3c4d", AppUniqueName("Q Business Connector", "1a2b3c4d"))
}

func TestNewDataConnectorApp(t *testing.T) {
	app := NewDataConnectorApp("Q App", "Q_App_x", "", "admin@example.com", "https://login.salesforce.com/services/oauth2/token")

	assert.Equal(t, DefaultConnectedAppDescription, app.Description)
	assert.Equal(t, []string{"Full"}, app.OAuth.Scopes)
	assert.True(t, app.OAuth.IsPkceRequired)
	assert.True(t, app.OAuth.IsIntrospectAllTokens)
	assert.Nil(t, app.OAuth.IsTokenExchangeEnabled)
}

func TestNewActionsApp(t *testing.T) {
	app := NewActionsApp("Actions", "Actions_x", "", "admin@example.com", ActionsRedirectURL("https://abc.chat.qbusiness.us-east-1.on.aws/"))

	assert.Equal(t, "https://abc.chat.qbusiness.us-east-1.on.aws/oauth/callback", app.OAuth.CallbackURL)
	assert.Equal(t, DefaultActionsAppDescription+" - Configured for Salesforce Actions integration", app.Description)
	assert.Len(t, app.OAuth.Scopes, 17)
	assert.Equal(t, "Full", app.OAuth.Scopes[len(app.OAuth.Scopes)-1])
	assert.False(t, app.OAuth.IsPkceRequired)
	require.NotNil(t, app.OAuth.IsTokenExchangeEnabled)
	assert.True(t, *app.OAuth.IsTokenExchangeEnabled)
}

func TestSalesforcePluginServerURL(t *testing.T) {
	assert.Equal(t, "https://acme.my.salesforce.com/services/data/v60.0", SalesforcePluginServerURL("https://acme.my.salesforce.com/"))
	assert.Equal(t, "https://acme.my.salesforce.com/services/data/v60.0", SalesforcePluginServerURL("https://acme.my.salesforce.com/services/data/v60.0"))
}

func TestSalesforceInstanceURL(t *testing.T) {
	assert.Equal(t, "https://acme.my.salesforce.com", SalesforceInstanceURL("https://acme.my.salesforce.com/services/Soap/c/60.0/00D"))
	assert.Equal(t, "https://acme.my.salesforce.com", SalesforceInstanceURL("https://acme.my.salesforce.com/"))
}
