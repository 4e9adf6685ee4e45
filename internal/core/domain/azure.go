package domain

import (
	"fmt"
	"time"
)

// Well-known Microsoft resource applications and roles.
const (
	GraphAppID               = "00000003-0000-0000-c000-000000000000"
	GraphDisplayName         = "Microsoft Graph"
	SharePointDisplayName    = "Office 365 SharePoint Online"
	RoleSitesFullControlAll  = "Sites.FullControl.All"
	RoleApplicationReadWrite = "Application.ReadWrite.All"
	DefaultClientSecretName  = "Default Client Secret"
)

// AzureCredentials are client credentials of an Azure AD application.
type AzureCredentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

// AppRole is an application permission exposed by a service principal.
type AppRole struct {
	ID                 string   `json:"id"`
	Value              string   `json:"value"`
	AllowedMemberTypes []string `json:"allowedMemberTypes"`
}

// ServicePrincipal is a resource application in the tenant.
type ServicePrincipal struct {
	ID       string    `json:"id"`
	AppID    string    `json:"appId"`
	AppRoles []AppRole `json:"appRoles"`
}

// ApplicationRoleID returns the id of an application-assignable role by value.
func (sp *ServicePrincipal) ApplicationRoleID(value string) (string, bool) {
	for _, r := range sp.AppRoles {
		if r.Value != value {
			continue
		}
		for _, t := range r.AllowedMemberTypes {
			if t == "Application" {
				return r.ID, true
			}
		}
	}
	return "", false
}

// ResourceAccess grants one role of a resource application.
type ResourceAccess struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// RequiredResourceAccess lists the roles requested on one resource application.
type RequiredResourceAccess struct {
	ResourceAppID  string           `json:"resourceAppId"`
	ResourceAccess []ResourceAccess `json:"resourceAccess"`
}

// AzureApplication is the create payload of an app registration.
type AzureApplication struct {
	DisplayName            string                   `json:"displayName"`
	RequiredResourceAccess []RequiredResourceAccess `json:"requiredResourceAccess"`
}

// AzureAppRef identifies an app registration.
type AzureAppRef struct {
	ObjectID    string `json:"id"`
	AppID       string `json:"appId"`
	DisplayName string `json:"displayName"`
}

// PasswordCredential is a client secret added to an application.
type PasswordCredential struct {
	KeyID       string    `json:"keyId"`
	SecretText  string    `json:"secretText"`
	DisplayName string    `json:"displayName"`
	EndDateTime time.Time `json:"endDateTime"`
}

// KeyCredential is a certificate registered on an application.
type KeyCredential struct {
	DisplayName   string
	Key           []byte
	StartDateTime time.Time
	EndDateTime   time.Time
}

// SharePointAppRequest builds the app registration requesting Graph and
// SharePoint roles. Every role must be known to its service principal.
func SharePointAppRequest(name string, graph, sharePoint *ServicePrincipal) (AzureApplication, error) {
	graphRoles, err := roleAccess(graph, RoleSitesFullControlAll, RoleApplicationReadWrite)
	if err != nil {
		return AzureApplication{}, err
	}
	spRoles, err := roleAccess(sharePoint, RoleSitesFullControlAll)
	if err != nil {
		return AzureApplication{}, err
	}
	return AzureApplication{
		DisplayName: name,
		RequiredResourceAccess: []RequiredResourceAccess{
			{ResourceAppID: GraphAppID, ResourceAccess: graphRoles},
			{ResourceAppID: sharePoint.AppID, ResourceAccess: spRoles},
		},
	}, nil
}

func roleAccess(sp *ServicePrincipal, values ...string) ([]ResourceAccess, error) {
	access := make([]ResourceAccess, 0, len(values))
	for _, v := range values {
		id, ok := sp.ApplicationRoleID(v)
		if !ok {
			return nil, fmt.Errorf("%w: application role %s not found", ErrNotFound, v)
		}
		access = append(access, ResourceAccess{ID: id, Type: "Role"})
	}
	return access, nil
}

// EntraAppURL links to the app registration overview in the Entra portal.
func EntraAppURL(appID string) string {
	return "https://entra.microsoft.com/#view/Microsoft_AAD_RegisteredApps/ApplicationMenuBlade/~/Overview/appId/" + appID + "/isMSAApp~/false"
}

// CertificateSubject describes the subject of a self-signed certificate.
type CertificateSubject struct {
	CommonName   string `json:"cert_common_name"`
	Country      string `json:"country_name"`
	State        string `json:"state_name"`
	Locality     string `json:"locality_name"`
	Organization string `json:"organization_name"`
	ValidityDays int    `json:"validity_days"`
}

// WithDefaults fills absent subject fields.
func (s CertificateSubject) WithDefaults() CertificateSubject {
	if s.CommonName == "" {
		s.CommonName = "example.com"
	}
	if s.Country == "" {
		s.Country = "US"
	}
	if s.State == "" {
		s.State = "State"
	}
	if s.Locality == "" {
		s.Locality = "City"
	}
	if s.Organization == "" {
		s.Organization = "Organization"
	}
	if s.ValidityDays <= 0 {
		s.ValidityDays = 365
	}
	return s
}

// Certificate is a PEM encoded certificate and its private key.
type Certificate struct {
	CertPEM   []byte
	KeyPEM    []byte
	NotBefore time.Time
	NotAfter  time.Time
}
