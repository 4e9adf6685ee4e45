package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphPrincipal() *ServicePrincipal {
	return &ServicePrincipal{
		ID:    "sp-graph",
		AppID: GraphAppID,
		AppRoles: []AppRole{
			{ID: "role-sites", Value: RoleSitesFullControlAll, AllowedMemberTypes: []string{"Application"}},
			{ID: "role-apps", Value: RoleApplicationReadWrite, AllowedMemberTypes: []string{"Application"}},
			{ID: "role-user", Value: "User.Read", AllowedMemberTypes: []string{"User"}},
		},
	}
}

func TestSharePointAppRequest(t *testing.T) {
	sharePoint := &ServicePrincipal{
		ID:       "sp-spo",
		AppID:    "00000003-0000-0ff1-ce00-000000000000",
		AppRoles: []AppRole{{ID: "spo-sites", Value: RoleSitesFullControlAll, AllowedMemberTypes: []string{"Application"}}},
	}

	app, err := SharePointAppRequest("q-sharepoint", graphPrincipal(), sharePoint)
	require.NoError(t, err)

	assert.Equal(t, "q-sharepoint", app.DisplayName)
	require.Len(t, app.RequiredResourceAccess, 2)
	assert.Equal(t, GraphAppID, app.RequiredResourceAccess[0].ResourceAppID)
	assert.Equal(t, []ResourceAccess{{ID: "role-sites", Type: "Role"}, {ID: "role-apps", Type: "Role"}}, app.RequiredResourceAccess[0].ResourceAccess)
	assert.Equal(t, sharePoint.AppID, app.RequiredResourceAccess[1].ResourceAppID)
}

func TestSharePointAppRequest_MissingRole(t *testing.T) {
	sharePoint := &ServicePrincipal{AppRoles: []AppRole{{ID: "x", Value: RoleSitesFullControlAll, AllowedMemberTypes: []string{"User"}}}}

	_, err := SharePointAppRequest("q", graphPrincipal(), sharePoint)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCertificateSubject_WithDefaults(t *testing.T) {
	s := CertificateSubject{CommonName: "contoso.com"}.WithDefaults()
	assert.Equal(t, "contoso.com", s.CommonName)
	assert.Equal(t, "US", s.Country)
	assert.Equal(t, 365, s.ValidityDays)
}

func TestSecretNames(t *testing.T) {
	assert.Equal(t, "qbusiness-zendesk-secret-acme-1750882988", ZendeskSecretName("acme", "amazon-q-business-1750882988"))
	assert.Equal(t, "qbusiness-zendesk-secret-acme-plain", ZendeskSecretName("acme", "plain"))
	assert.Equal(t, "qbusiness-servicenow-secret-dev001-abc", ServiceNowSecretName("dev001", "abc"))
	assert.Equal(t, "qbusiness-sharepoint-secret-contoso-app", SharePointSecretName("contoso", "app"))
	assert.Equal(t, "https://api.example.com/prod/zendesk-oauth-callback", ZendeskRedirectURI("https://api.example.com/prod/"))
}

func TestDataSourceErrorQuery(t *testing.T) {
	q := DataSourceErrorQuery("ds-1")
	assert.Contains(t, q, "| filter @logStream like /^ds-1/")
	assert.Contains(t, q, "sort @timestamp desc")
	assert.Equal(t, "/aws/qbusiness/app-1", LogGroupName("app-1"))
}

func TestLogQueryStatus_Done(t *testing.T) {
	assert.False(t, LogQueryRunning.Done())
	assert.False(t, LogQueryScheduled.Done())
	assert.True(t, LogQueryComplete.Done())
	assert.True(t, LogQueryFailed.Done())
}
