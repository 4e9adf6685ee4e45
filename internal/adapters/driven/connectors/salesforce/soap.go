package salesforce

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

type envelope struct {
	XMLName xml.Name    `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Header  *soapHeader `xml:"http://schemas.xmlsoap.org/soap/envelope/ Header,omitempty"`
	Body    soapBody    `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

type soapHeader struct {
	Session sessionHeader
}

type sessionHeader struct {
	XMLName   xml.Name `xml:"http://soap.sforce.com/2006/04/metadata SessionHeader"`
	SessionID string   `xml:"sessionId"`
}

type soapBody struct {
	Content any
}

type loginRequest struct {
	XMLName  xml.Name `xml:"urn:enterprise.soap.sforce.com login"`
	Username string   `xml:"username"`
	Password string   `xml:"password"`
}

type createRequest struct {
	XMLName  xml.Name         `xml:"http://soap.sforce.com/2006/04/metadata create"`
	Metadata connectedAppMeta `xml:"metadata"`
}

type connectedAppMeta struct {
	Type         string      `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr"`
	FullName     string      `xml:"fullName"`
	Label        string      `xml:"label"`
	Description  string      `xml:"description"`
	ContactEmail string      `xml:"contactEmail"`
	OAuthConfig  oauthConfig `xml:"oauthConfig"`
}

type oauthConfig struct {
	CallbackURL                      string   `xml:"callbackUrl"`
	Scopes                           []string `xml:"scopes"`
	IsIntrospectAllTokens            bool     `xml:"isIntrospectAllTokens,omitempty"`
	IsPkceRequired                   bool     `xml:"isPkceRequired,omitempty"`
	IsSecretRequiredForRefreshToken  bool     `xml:"isSecretRequiredForRefreshToken"`
	IsSecretRequiredForTokenExchange *bool    `xml:"isSecretRequiredForTokenExchange,omitempty"`
	IsTokenExchangeEnabled           *bool    `xml:"isTokenExchangeEnabled,omitempty"`
}

// response decodes the envelopes of login and create, and faults.
type response struct {
	Fault *struct {
		Code   string `xml:"faultcode"`
		String string `xml:"faultstring"`
	} `xml:"Body>Fault"`
	Login *struct {
		ServerURL string `xml:"serverUrl"`
		SessionID string `xml:"sessionId"`
		UserID    string `xml:"userId"`
	} `xml:"Body>loginResponse>result"`
	Create *struct {
		ID      string `xml:"id"`
		Success string `xml:"success"`
		Errors  []struct {
			Message    string `xml:"message"`
			StatusCode string `xml:"statusCode"`
		} `xml:"errors"`
	} `xml:"Body>createResponse>result"`
}

func marshalEnvelope(header *soapHeader, content any) ([]byte, error) {
	out, err := xml.Marshal(envelope{Header: header, Body: soapBody{Content: content}})
	if err != nil {
		return nil, fmt.Errorf("encode SOAP envelope: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func parseResponse(body []byte) (*response, error) {
	var r response
	if err := xml.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode SOAP response: %w", err)
	}
	return &r, nil
}

// faultError classifies a SOAP fault. Login faults are credential failures.
func faultError(code, text string) error {
	msg := "SOAP Fault: " + code
	if text != "" {
		msg += " - " + text
	}
	upper := strings.ToUpper(code)
	if strings.Contains(upper, "INVALID_LOGIN") || strings.Contains(upper, "LOGIN_MUST_USE_SECURITY_TOKEN") ||
		strings.Contains(upper, "INVALID_SESSION_ID") || strings.Contains(upper, "PASSWORD_LOCKOUT") {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	}
	return fmt.Errorf("%w: %s", domain.ErrUpstream, msg)
}

func connectedAppMetadata(app domain.ConnectedApp) connectedAppMeta {
	return connectedAppMeta{
		Type:         "ConnectedApp",
		FullName:     app.FullName,
		Label:        app.Label,
		Description:  app.Description,
		ContactEmail: app.ContactEmail,
		OAuthConfig: oauthConfig{
			CallbackURL:                      app.OAuth.CallbackURL,
			Scopes:                           app.OAuth.Scopes,
			IsIntrospectAllTokens:            app.OAuth.IsIntrospectAllTokens,
			IsPkceRequired:                   app.OAuth.IsPkceRequired,
			IsSecretRequiredForRefreshToken:  app.OAuth.IsSecretRequiredForRefreshToken,
			IsSecretRequiredForTokenExchange: app.OAuth.IsSecretRequiredForTokenExchange,
			IsTokenExchangeEnabled:           app.OAuth.IsTokenExchangeEnabled,
		},
	}
}
