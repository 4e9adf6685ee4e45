package lambda

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

const pageStyle = `body{font-family:Arial,sans-serif;margin:0;padding:20px;background-color:#f5f5f5}
.container{max-width:600px;margin:0 auto;background-color:white;padding:20px;border-radius:5px;box-shadow:0 2px 10px rgba(0,0,0,0.1)}
.loader{border:5px solid #f3f3f3;border-top:5px solid #3498db;border-radius:50%;width:50px;height:50px;animation:spin 2s linear infinite;margin:20px auto}
@keyframes spin{0%{transform:rotate(0deg)}100%{transform:rotate(360deg)}}
.error{color:#e74c3c;font-weight:bold}
.success{color:#2ecc71;font-weight:bold}`

// exchangePage posts code and state to the exchange endpoint on load. The
// values are escaped for their script context by html/template.
var exchangePage = template.Must(template.New("exchange").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Zendesk OAuth Callback</title>
<style>` + pageStyle + `</style>
</head>
<body>
<div class="container">
<h1>Zendesk OAuth Authorization</h1>
<p>Authorization successful! Exchanging code for access token...</p>
<div class="loader" id="loader"></div>
<p id="status">Please wait...</p>
</div>
<script>
async function exchangeCode() {
  const status = document.getElementById('status');
  const done = function (cls, text) {
    document.getElementById('loader').style.display = 'none';
    status.textContent = '';
    const span = document.createElement('span');
    span.className = cls;
    span.textContent = text;
    status.appendChild(span);
  };
  try {
    const response = await fetch({{.ExchangeURL}}, {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({code: {{.Code}}, state: {{.State}}})
    });
    const data = await response.json();
    if (response.ok) {
      done('success', 'Success! Token has been stored securely. You can now close this window and return to Amazon Q Business.');
    } else {
      done('error', 'Error: ' + (data.message || 'Failed to exchange code for token'));
    }
  } catch (error) {
    done('error', 'Error: ' + error.message);
  }
}
window.onload = exchangeCode;
</script>
</body>
</html>
`))

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}}</title>
<style>` + pageStyle + `</style>
</head>
<body>
<div class="container">
<h1 class="error">{{.Title}}</h1>
<p>{{.Message}}</p>
</div>
</body>
</html>
`))

// htmlHeaders are sent with both callback pages.
func htmlHeaders(csp string) map[string]string {
	return map[string]string{
		"Content-Type":            "text/html; charset=utf-8",
		"Content-Security-Policy": csp,
		"Cache-Control":           "no-store",
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "no-referrer",
	}
}

func callbackPage(res *driving.OAuthCallbackResult) events.APIGatewayProxyResponse {
	var buf bytes.Buffer
	if err := exchangePage.Execute(&buf, res); err != nil {
		return callbackErrorPage(domain.InternalError(err))
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    htmlHeaders("default-src 'none'; style-src 'unsafe-inline'; script-src 'unsafe-inline'; connect-src https:"),
		Body:       buf.String(),
	}
}

func callbackErrorPage(err error) events.APIGatewayProxyResponse {
	de := domain.AsError(err)
	status := de.StatusCode()
	title := de.Title
	if de.Kind != domain.KindClient {
		title = "Server Error"
	}

	var buf bytes.Buffer
	if terr := errorPage.Execute(&buf, struct{ Title, Message string }{title, de.Message}); terr != nil {
		buf.Reset()
		buf.WriteString("<!DOCTYPE html><html><body><h1>Server Error</h1></body></html>")
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    htmlHeaders("default-src 'none'; style-src 'unsafe-inline'"),
		Body:       buf.String(),
	}
}
