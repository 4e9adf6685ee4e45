package domain

// SalesforceOptions selects which Salesforce objects a data source crawls.
// Nil flags take the documented defaults: knowledge articles, cases,
// opportunities, accounts, contacts and attachments on; chatter off.
type SalesforceOptions struct {
	SyncMode                 string `json:"syncMode,omitempty"`
	IncludeKnowledgeArticles *bool  `json:"includeKnowledgeArticles,omitempty"`
	IncludeChatterFeeds      *bool  `json:"includeChatterFeeds,omitempty"`
	IncludeCases             *bool  `json:"includeCases,omitempty"`
	IncludeOpportunities     *bool  `json:"includeOpportunities,omitempty"`
	IncludeAccounts          *bool  `json:"includeAccounts,omitempty"`
	IncludeContacts          *bool  `json:"includeContacts,omitempty"`
	CrawlAttachments         *bool  `json:"crawlAttachments,omitempty"`
}

// resolvedSalesforceOptions is SalesforceOptions with defaults applied.
type resolvedSalesforceOptions struct {
	syncMode          string
	knowledgeArticles bool
	chatter           bool
	cases             bool
	opportunities     bool
	accounts          bool
	contacts          bool
	attachments       bool
}

func (o SalesforceOptions) resolve() resolvedSalesforceOptions {
	mode := o.SyncMode
	if mode == "" {
		mode = SyncModeFullCrawl
	}
	return resolvedSalesforceOptions{
		syncMode:          mode,
		knowledgeArticles: boolOr(o.IncludeKnowledgeArticles, true),
		chatter:           boolOr(o.IncludeChatterFeeds, false),
		cases:             boolOr(o.IncludeCases, true),
		opportunities:     boolOr(o.IncludeOpportunities, true),
		accounts:          boolOr(o.IncludeAccounts, true),
		contacts:          boolOr(o.IncludeContacts, true),
		attachments:       boolOr(o.CrawlAttachments, true),
	}
}

// EffectiveSyncMode returns the sync mode after defaults.
func (o SalesforceOptions) EffectiveSyncMode() string {
	return o.resolve().syncMode
}

// IncludedObjects lists the display names of the selected objects.
func (o SalesforceOptions) IncludedObjects() []string {
	r := o.resolve()
	var objects []string
	if r.knowledgeArticles {
		objects = append(objects, "Knowledge Articles")
	}
	if r.cases {
		objects = append(objects, "Cases")
	}
	if r.opportunities {
		objects = append(objects, "Opportunities")
	}
	if r.accounts {
		objects = append(objects, "Accounts")
	}
	if r.contacts {
		objects = append(objects, "Contacts")
	}
	if r.chatter {
		objects = append(objects, "Chatter Feeds")
	}
	return objects
}

// SalesforceConfig is the SALESFORCE connector document.
type SalesforceConfig struct {
	Type                     DataSourceType                     `json:"type"`
	ConnectionConfiguration  SalesforceConnection               `json:"connectionConfiguration"`
	RepositoryConfigurations map[string]RepositoryConfiguration `json:"repositoryConfigurations"`
	AdditionalProperties     SalesforceAdditionalProperties     `json:"additionalProperties"`
	SecretArn                string                             `json:"secretArn"`
	SyncMode                 string                             `json:"syncMode"`
}

func (SalesforceConfig) DataSourceType() DataSourceType { return DataSourceTypeSalesforce }

type SalesforceConnection struct {
	RepositoryEndpointMetadata struct {
		HostURL string `json:"hostUrl"`
	} `json:"repositoryEndpointMetadata"`
}

// KnowledgeArticleStates selects article publication states to crawl.
type KnowledgeArticleStates struct {
	IsCrawlDraft    bool `json:"isCrawlDraft"`
	IsCrawlPublish  bool `json:"isCrawlPublish"`
	IsCrawlArchived bool `json:"isCrawlArchived"`
}

type SalesforceAdditionalProperties struct {
	IsCrawlAccount      bool `json:"isCrawlAccount"`
	IsCrawlContact      bool `json:"isCrawlContact"`
	IsCrawlCase         bool `json:"isCrawlCase"`
	IsCrawlCampaign     bool `json:"isCrawlCampaign"`
	IsCrawlProduct      bool `json:"isCrawlProduct"`
	IsCrawlLead         bool `json:"isCrawlLead"`
	IsCrawlContract     bool `json:"isCrawlContract"`
	IsCrawlPartner      bool `json:"isCrawlPartner"`
	IsCrawlProfile      bool `json:"isCrawlProfile"`
	IsCrawlIdea         bool `json:"isCrawlIdea"`
	IsCrawlPricebook    bool `json:"isCrawlPricebook"`
	IsCrawlDocument     bool `json:"isCrawlDocument"`
	IsCrawlGroup        bool `json:"isCrawlGroup"`
	IsCrawlOpportunity  bool `json:"isCrawlOpportunity"`
	IsCrawlChatter      bool `json:"isCrawlChatter"`
	IsCrawlUser         bool `json:"isCrawlUser"`
	IsCrawlSolution     bool `json:"isCrawlSolution"`
	IsCrawlTask         bool `json:"isCrawlTask"`
	CrawlSharedDocument bool `json:"crawlSharedDocument"`
	IsCrawlAcl          bool `json:"isCrawlAcl"`

	IsCrawlKnowledgeArticles KnowledgeArticleStates `json:"isCrawlKnowledgeArticles"`

	IsCrawlAccountAttachments      bool `json:"isCrawlAccountAttachments"`
	IsCrawlContactAttachments      bool `json:"isCrawlContactAttachments"`
	IsCrawlCaseAttachments         bool `json:"isCrawlCaseAttachments"`
	IsCrawlCampaignAttachments     bool `json:"isCrawlCampaignAttachments"`
	IsCrawlLeadAttachments         bool `json:"isCrawlLeadAttachments"`
	IsCrawlContractAttachments     bool `json:"isCrawlContractAttachments"`
	IsCrawlGroupAttachments        bool `json:"isCrawlGroupAttachments"`
	IsCrawlOpportunityAttachments  bool `json:"isCrawlOpportunityAttachments"`
	IsCrawlChatterAttachments      bool `json:"isCrawlChatterAttachments"`
	IsCrawlSolutionAttachments     bool `json:"isCrawlSolutionAttachments"`
	IsCrawlTaskAttachments         bool `json:"isCrawlTaskAttachments"`
	IsCrawlCustomEntityAttachments bool `json:"isCrawlCustomEntityAttachments"`

	InclusionDocumentFileTypePatterns     []string `json:"inclusionDocumentFileTypePatterns"`
	InclusionAccountFileTypePatterns      []string `json:"inclusionAccountFileTypePatterns"`
	InclusionCampaignFileTypePatterns     []string `json:"inclusionCampaignFileTypePatterns"`
	InclusionCaseFileTypePatterns         []string `json:"inclusionCaseFileTypePatterns"`
	InclusionContactFileTypePatterns      []string `json:"inclusionContactFileTypePatterns"`
	InclusionContractFileTypePatterns     []string `json:"inclusionContractFileTypePatterns"`
	InclusionLeadFileTypePatterns         []string `json:"inclusionLeadFileTypePatterns"`
	InclusionOpportunityFileTypePatterns  []string `json:"inclusionOpportunityFileTypePatterns"`
	InclusionSolutionFileTypePatterns     []string `json:"inclusionSolutionFileTypePatterns"`
	InclusionTaskFileTypePatterns         []string `json:"inclusionTaskFileTypePatterns"`
	InclusionGroupFileTypePatterns        []string `json:"inclusionGroupFileTypePatterns"`
	InclusionChatterFileTypePatterns      []string `json:"inclusionChatterFileTypePatterns"`
	InclusionCustomEntityFileTypePatterns []string `json:"inclusionCustomEntityFileTypePatterns"`

	InclusionDocumentFileNamePatterns     []string `json:"inclusionDocumentFileNamePatterns"`
	InclusionAccountFileNamePatterns      []string `json:"inclusionAccountFileNamePatterns"`
	InclusionCampaignFileNamePatterns     []string `json:"inclusionCampaignFileNamePatterns"`
	InclusionCaseFileNamePatterns         []string `json:"inclusionCaseFileNamePatterns"`
	InclusionContactFileNamePatterns      []string `json:"inclusionContactFileNamePatterns"`
	InclusionContractFileNamePatterns     []string `json:"inclusionContractFileNamePatterns"`
	InclusionLeadFileNamePatterns         []string `json:"inclusionLeadFileNamePatterns"`
	InclusionOpportunityFileNamePatterns  []string `json:"inclusionOpportunityFileNamePatterns"`
	InclusionSolutionFileNamePatterns     []string `json:"inclusionSolutionFileNamePatterns"`
	InclusionTaskFileNamePatterns         []string `json:"inclusionTaskFileNamePatterns"`
	InclusionGroupFileNamePatterns        []string `json:"inclusionGroupFileNamePatterns"`
	InclusionChatterFileNamePatterns      []string `json:"inclusionChatterFileNamePatterns"`
	InclusionCustomEntityFileNamePatterns []string `json:"inclusionCustomEntityFileNamePatterns"`

	MaxFileSizeInMegaBytes string `json:"maxFileSizeInMegaBytes"`
}

// BuildSalesforceConfig maps options onto the SALESFORCE connector document.
// Objects not covered by an option (campaigns, leads, products...) are always crawled.
func BuildSalesforceConfig(hostURL, secretARN string, opts SalesforceOptions) SalesforceConfig {
	r := opts.resolve()

	props := SalesforceAdditionalProperties{
		IsCrawlAccount:      r.accounts,
		IsCrawlContact:      r.contacts,
		IsCrawlCase:         r.cases,
		IsCrawlCampaign:     true,
		IsCrawlProduct:      true,
		IsCrawlLead:         true,
		IsCrawlContract:     true,
		IsCrawlPartner:      true,
		IsCrawlProfile:      true,
		IsCrawlIdea:         true,
		IsCrawlPricebook:    true,
		IsCrawlDocument:     true,
		IsCrawlGroup:        true,
		IsCrawlOpportunity:  r.opportunities,
		IsCrawlChatter:      r.chatter,
		IsCrawlUser:         true,
		IsCrawlSolution:     true,
		IsCrawlTask:         true,
		CrawlSharedDocument: true,
		IsCrawlAcl:          true,

		IsCrawlAccountAttachments:      r.accounts && r.attachments,
		IsCrawlContactAttachments:      r.contacts && r.attachments,
		IsCrawlCaseAttachments:         r.cases && r.attachments,
		IsCrawlCampaignAttachments:     r.attachments,
		IsCrawlLeadAttachments:         r.attachments,
		IsCrawlContractAttachments:     r.attachments,
		IsCrawlGroupAttachments:        r.attachments,
		IsCrawlOpportunityAttachments:  r.opportunities && r.attachments,
		IsCrawlChatterAttachments:      r.chatter && r.attachments,
		IsCrawlSolutionAttachments:     r.attachments,
		IsCrawlTaskAttachments:         r.attachments,
		IsCrawlCustomEntityAttachments: r.attachments,

		InclusionDocumentFileTypePatterns:     anyPattern(),
		InclusionAccountFileTypePatterns:      anyPattern(),
		InclusionCampaignFileTypePatterns:     anyPattern(),
		InclusionCaseFileTypePatterns:         anyPattern(),
		InclusionContactFileTypePatterns:      anyPattern(),
		InclusionContractFileTypePatterns:     anyPattern(),
		InclusionLeadFileTypePatterns:         anyPattern(),
		InclusionOpportunityFileTypePatterns:  anyPattern(),
		InclusionSolutionFileTypePatterns:     anyPattern(),
		InclusionTaskFileTypePatterns:         anyPattern(),
		InclusionGroupFileTypePatterns:        anyPattern(),
		InclusionChatterFileTypePatterns:      anyPattern(),
		InclusionCustomEntityFileTypePatterns: anyPattern(),

		InclusionDocumentFileNamePatterns:     anyPattern(),
		InclusionAccountFileNamePatterns:      anyPattern(),
		InclusionCampaignFileNamePatterns:     anyPattern(),
		InclusionCaseFileNamePatterns:         anyPattern(),
		InclusionContactFileNamePatterns:      anyPattern(),
		InclusionContractFileNamePatterns:     anyPattern(),
		InclusionLeadFileNamePatterns:         anyPattern(),
		InclusionOpportunityFileNamePatterns:  anyPattern(),
		InclusionSolutionFileNamePatterns:     anyPattern(),
		InclusionTaskFileNamePatterns:         anyPattern(),
		InclusionGroupFileNamePatterns:        anyPattern(),
		InclusionChatterFileNamePatterns:      anyPattern(),
		InclusionCustomEntityFileNamePatterns: anyPattern(),

		MaxFileSizeInMegaBytes: "50",
	}

	repos := make(map[string]RepositoryConfiguration)
	titleBody := func(title, body string) RepositoryConfiguration {
		return repository(stringField(title, "_document_title"), stringField(body, "_document_body"))
	}

	if r.knowledgeArticles {
		repos["knowledgeArticles"] = titleBody("Title", "Summary")
		props.IsCrawlKnowledgeArticles = KnowledgeArticleStates{IsCrawlDraft: true, IsCrawlPublish: true}
	}
	if r.cases {
		repos["case"] = titleBody("Subject", "Description")
	}
	if r.opportunities {
		repos["opportunity"] = titleBody("Name", "Description")
	}
	if r.accounts {
		repos["account"] = titleBody("Name", "Description")
	}
	if r.contacts {
		repos["contact"] = titleBody("Name", "Description")
	}
	if r.chatter {
		repos["chatter"] = repository(stringField("Body", "_document_body"))
	}

	cfg := SalesforceConfig{
		Type:                     DataSourceTypeSalesforce,
		RepositoryConfigurations: repos,
		AdditionalProperties:     props,
		SecretArn:                secretARN,
		SyncMode:                 r.syncMode,
	}
	cfg.ConnectionConfiguration.RepositoryEndpointMetadata.HostURL = hostURL
	return cfg
}
