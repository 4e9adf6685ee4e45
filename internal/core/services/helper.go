package services

import (
	"context"
	"html"
	"log/slog"
	"strings"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// Ensure helperService implements HelperService
var _ driving.HelperService = (*helperService)(nil)

// helperService implements the HelperService interface
type helperService struct {
	logger *slog.Logger
}

// NewHelperService creates a new HelperService
func NewHelperService(logger *slog.Logger) driving.HelperService {
	if logger == nil {
		logger = slog.Default()
	}
	return &helperService{logger: logger.With("component", "helper")}
}

// Help answers a setup question for one connector.
func (s *helperService) Help(ctx context.Context, req driving.HelpRequest) (*driving.HelpResponse, error) {
	s.logger.Debug("help requested", "topic", req.Topic, "has_question", req.Question != "")

	switch strings.ToLower(req.Topic) {
	case driving.HelpSalesforce:
		return salesforceHelp(req.Question), nil
	case driving.HelpServiceNow:
		return &driving.HelpResponse{Message: withQuestion(serviceNowHelpContext, req.Question)}, nil
	case driving.HelpSharePoint:
		return &driving.HelpResponse{Message: withQuestion(sharePointHelpContext, req.Question)}, nil
	case driving.HelpZendesk:
		return &driving.HelpResponse{Message: withQuestion(zendeskHelpContext, req.Question)}, nil
	}
	return nil, domain.NotFoundError("Unknown Helper", "No helper exists for "+req.Topic)
}

// withQuestion appends the escaped question to a help context.
func withQuestion(text, question string) string {
	return text + "\nQuestion: " + html.EscapeString(question) + "\n"
}

// salesforceHelp answers with a keyword specific message when the question
// matches one, and the general walkthrough otherwise.
func salesforceHelp(question string) *driving.HelpResponse {
	resp := &driving.HelpResponse{
		Message:      "Welcome to the Amazon Q Business Salesforce Connector! I'll help you set up a secure connection to your Salesforce instance.",
		Instructions: salesforceInstructions,
		Requirements: salesforceRequirements,
		NextSteps:    salesforceNextSteps,
	}

	q := strings.ToLower(question)
	switch {
	case q == "":
	case strings.Contains(q, "credential"), strings.Contains(q, "password"):
		resp.Message = "For Salesforce credentials, you need: username, password, security token, and instance URL. The security token can be reset from Salesforce Settings."
	case strings.Contains(q, "connected app"), strings.Contains(q, "consumer"):
		resp.Message = "The Connected App will be created automatically using Salesforce APIs. You'll receive the Consumer Key and Consumer Secret needed for authentication."
	case strings.Contains(q, "security token"):
		resp.Message = "To get your security token: Go to Salesforce Setup > My Personal Information > Reset My Security Token. Check your email for the new token."
	case strings.Contains(q, "error"), strings.Contains(q, "fail"):
		resp.Message = "Common issues: Invalid credentials, expired security token, insufficient permissions, or API limits. Use the test authentication feature to diagnose problems."
	}
	return resp
}

var salesforceInstructions = []string{
	"1. Gather your Salesforce credentials:",
	"   - Salesforce instance URL (e.g., https://mycompany.salesforce.com)",
	"   - Admin username and password",
	"   - Security token (from Salesforce Settings > My Personal Information > Reset My Security Token)",
	"",
	"2. Create a Connected App:",
	"   - Use the 'Create Salesforce Connected App' action",
	"   - This will automatically create a Connected App in your Salesforce org",
	"   - You'll receive Consumer Key and Consumer Secret",
	"",
	"3. Test Authentication:",
	"   - Use the 'Test Salesforce Authentication' action",
	"   - This validates all credentials work together",
	"",
	"4. Create Data Source:",
	"   - Use the 'Create Salesforce Data Source' action",
	"   - Configure which Salesforce objects to include",
	"   - The system will create a secure secret in AWS Secrets Manager",
}

var salesforceRequirements = []string{
	"Salesforce System Administrator access",
	"Salesforce Developer Edition or higher (for API access)",
	"Valid Salesforce username, password, and security token",
	"Amazon Q Business application and index already created",
}

var salesforceNextSteps = []string{
	"Start by using the 'Create Salesforce Connected App' action",
	"Have your Salesforce credentials ready",
	"Ensure you have System Administrator privileges in Salesforce",
}

const serviceNowHelpContext = `I am a QServicenow Helper, a bot that can help setup and manage Q Business - ServiceNow Integration. Use the context below to answer user's questions
<Context>
    Here are the high level steps that you have to accomplish in order to setup ServiceNow integration with Q Business:
    1. Create an OAuth application in ServiceNow
    2. Create a new ServiceNow data source in QBusiness
    3. Once the data source is created you can manually sync the data source
    4. I can also help you analyze the last sync run or the errors from your last sync
    5. I can help automate any of the above steps
</Context>
If the user asks for what limitation you have, you can use the below context
<Context>
    1. I currently only support OAuth 2.0 authentication. I expect an admin username and password in order to setup the OAuth application in ServiceNow
    2. I have a set of sane defaults that I use when setting up the QBusiness data sources. You cannot change them through me. However you are free to go make changes to the data sources yourself
</Context>`

const sharePointHelpContext = `I am a QSharePoint Helper, a bot that can help setup and manage Q Business - SharePoint Integration. Use the context below to answer user's questions
<Context>
    Here are the high level steps that you have to accomplish in order to setup SharePoint integration with Q Business:
    1. Create an Azure Application in Microsoft Entra Portal. Ensure appropriate permissions are provided to access SharePoint API and Graph API.
    2. Generate a Self Signed Certificate along with Private Key. Upload this certificate to an S3 Bucket and also upload it to the created Azure App.
    3. Create a new QBusiness Data Source under a QBusiness application with sane defaults pointing to the SharePoint URL that you wish to crawl.
       The private key stored in the S3 bucket is kept in a Secrets Manager secret for the data source.
    4. Once the data source is created you can manually sync the data source.
    5. I can also help you analyze the last sync run or the errors from your last sync.
    I can help automate any of the above steps.
</Context>
If the user asks for what limitation you have, you can use the below context
<Context>
    1. I currently only support certificate-based authentication for SharePoint Online.
    2. I only support Sites.FullControl permission model within Microsoft Entra ID.
    3. I have a set of sane defaults that I use when setting up the QBusiness data sources. You cannot change them through me. However you are free to make changes to the data sources yourself.
</Context>`

const zendeskHelpContext = `I am QZendesk Helper, a bot that can help setup and manage Q Business - Zendesk Integration. Use the context below to answer user's questions
<Context>
    Here are the high level steps that you have to accomplish in order to setup Zendesk integration with Q Business:
    1. Create an OAuth application in your Zendesk account using the automated setup
    2. Complete the OAuth flow to authenticate with Zendesk
    3. Create a new Zendesk data source in QBusiness
    4. Once the data source is created you can manually sync the data source
    5. I can also help you analyze the last sync run or the errors from your last sync
    I can help automate all of these steps for you.
</Context>
If the user asks about the automated OAuth app setup, use the below context:
<Context>
    For the automated OAuth app setup, you'll need:
    - Your Zendesk subdomain (e.g., "mycompany" for mycompany.zendesk.com)
    - Admin email address with admin privileges in Zendesk
    - An API token (can be created in Zendesk Admin Center > APIs > API tokens)
    - App Name (Name for Oauth App to be created in Zendesk portal)
    I'll use these credentials to create the OAuth app via the Zendesk API, configure the proper redirect URIs,
    and set up the necessary scopes for Amazon Q Business integration.
</Context>
If the user mentions that authorization is already done or completed or authorization successful, use the below context:
<Context>
    Since the OAuth authorization is already completed, we can proceed directly to creating a Zendesk data source in Amazon Q Business.
    To create a Zendesk data source, you'll need:
    - Your Amazon Q Business application ID
    - Your Amazon Q Business index ID
    - Your Zendesk subdomain
    - A name for your data source (optional)
    - The type of Zendesk data you want to index (Guide articles, Support tickets, or both)
</Context>
If the user asks about data source creation, use the below context:
<Context>
    To create a Zendesk data source in Amazon Q Business, you'll need:
    - A completed OAuth flow with a valid access token
    - Your Amazon Q Business application ID
    - Your Amazon Q Business index ID
    - The type of Zendesk data you want to index (Guide articles, Support tickets, or both)
</Context>
If the user asks about limitations, use the below context:
<Context>
    1. I only support OAuth 2.0 authentication for Zendesk integration
    2. I use a set of default configurations when setting up the QBusiness data sources. While you can't modify these defaults through me, you can make changes to the data sources directly in the Amazon Q Business console
    3. The Zendesk integration supports indexing Guide articles and Support tickets
</Context>`
