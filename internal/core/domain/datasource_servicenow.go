package domain

const serviceNowDateFormat = "yyyy-MM-dd'T'HH:mm:ss'Z'"

// ServiceNowOptions selects which ServiceNow content is crawled. Nil flags
// default to knowledge articles, service catalog and attachments on,
// incidents off.
type ServiceNowOptions struct {
	SyncMode                 string `json:"syncMode,omitempty"`
	IncludeKnowledgeArticles *bool  `json:"includeKnowledgeArticles,omitempty"`
	IncludeServiceCatalog    *bool  `json:"includeServiceCatalog,omitempty"`
	IncludeIncidents         *bool  `json:"includeIncidents,omitempty"`
	CrawlAttachments         *bool  `json:"crawlAttachments,omitempty"`
}

// ServiceNowConfig is the SERVICENOW connector document.
type ServiceNowConfig struct {
	ConnectionConfiguration  ServiceNowConnection               `json:"connectionConfiguration"`
	EnableIdentityCrawler    StringBool                         `json:"enableIdentityCrawler"`
	CrawlType                string                             `json:"crawlType"`
	Version                  string                             `json:"version"`
	SyncMode                 string                             `json:"syncMode"`
	Type                     DataSourceType                     `json:"type"`
	SecretArn                string                             `json:"secretArn"`
	AdditionalProperties     ServiceNowAdditionalProperties     `json:"additionalProperties"`
	RepositoryConfigurations map[string]RepositoryConfiguration `json:"repositoryConfigurations"`
}

func (ServiceNowConfig) DataSourceType() DataSourceType { return DataSourceTypeServiceNow }

type ServiceNowConnection struct {
	RepositoryEndpointMetadata struct {
		HostURL                   string `json:"hostUrl"`
		AuthType                  string `json:"authType"`
		ServiceNowInstanceVersion string `json:"servicenowInstanceVersion"`
	} `json:"repositoryEndpointMetadata"`
}

type ServiceNowAdditionalProperties struct {
	MaxFileSizeInMegaBytes            string     `json:"maxFileSizeInMegaBytes"`
	IsCrawlKnowledgeArticle           StringBool `json:"isCrawlKnowledgeArticle"`
	IsCrawlKnowledgeArticleAttachment StringBool `json:"isCrawlKnowledgeArticleAttachment"`
	IncludePublicArticlesOnly         StringBool `json:"includePublicArticlesOnly"`
	KnowledgeArticleFilter            string     `json:"knowledgeArticleFilter"`
	IsCrawlServiceCatalog             StringBool `json:"isCrawlServiceCatalog"`
	IsCrawlServiceCatalogAttachment   StringBool `json:"isCrawlServiceCatalogAttachment"`
	IsCrawlActiveServiceCatalog       StringBool `json:"isCrawlActiveServiceCatalog"`
	IsCrawlInactiveServiceCatalog     StringBool `json:"isCrawlInactiveServiceCatalog"`
	IsCrawlIncident                   StringBool `json:"isCrawlIncident"`
	IsCrawlIncidentAttachment         StringBool `json:"isCrawlIncidentAttachment"`
	IsCrawlActiveIncident             StringBool `json:"isCrawlActiveIncident"`
	IsCrawlInactiveIncident           StringBool `json:"isCrawlInactiveIncident"`
	ApplyACLForKnowledgeArticle       StringBool `json:"applyACLForKnowledgeArticle"`
	ApplyACLForServiceCatalog         StringBool `json:"applyACLForServiceCatalog"`
	ApplyACLForIncident               StringBool `json:"applyACLForIncident"`
	IncidentStateType                 []string   `json:"incidentStateType"`
	KnowledgeArticleTitleRegExp       string     `json:"knowledgeArticleTitleRegExp"`
	ServiceCatalogTitleRegExp         string     `json:"serviceCatalogTitleRegExp"`
	IncidentTitleRegExp               string     `json:"incidentTitleRegExp"`
	InclusionFileTypePatterns         []string   `json:"inclusionFileTypePatterns"`
	ExclusionFileTypePatterns         []string   `json:"exclusionFileTypePatterns"`
	InclusionFileNamePatterns         []string   `json:"inclusionFileNamePatterns"`
	ExclusionFileNamePatterns         []string   `json:"exclusionFileNamePatterns"`
}

// ServiceNowHost returns the instance host name for an instance id.
func ServiceNowHost(instance string) string {
	return instance + ".service-now.com"
}

// BuildServiceNowConfig maps options onto the SERVICENOW connector document.
// Authentication is OAuth2 with the credentials held in the secret.
func BuildServiceNowConfig(instance, secretARN string, opts ServiceNowOptions) ServiceNowConfig {
	articles := boolOr(opts.IncludeKnowledgeArticles, true)
	catalog := boolOr(opts.IncludeServiceCatalog, true)
	incidents := boolOr(opts.IncludeIncidents, false)
	attachments := boolOr(opts.CrawlAttachments, true)
	mode := opts.SyncMode
	if mode == "" {
		mode = SyncModeForcedFullCrawl
	}

	cfg := ServiceNowConfig{
		EnableIdentityCrawler: true,
		CrawlType:             SyncModeFullCrawl,
		Version:               "1.0.0",
		SyncMode:              mode,
		Type:                  DataSourceTypeServiceNow,
		SecretArn:             secretARN,
		AdditionalProperties: ServiceNowAdditionalProperties{
			MaxFileSizeInMegaBytes:            "50",
			IsCrawlKnowledgeArticle:           StringBool(articles),
			IsCrawlKnowledgeArticleAttachment: StringBool(articles && attachments),
			IncludePublicArticlesOnly:         false,
			KnowledgeArticleFilter:            "active=true",
			IsCrawlServiceCatalog:             StringBool(catalog),
			IsCrawlServiceCatalogAttachment:   StringBool(catalog && attachments),
			IsCrawlActiveServiceCatalog:       StringBool(catalog),
			IsCrawlInactiveServiceCatalog:     StringBool(catalog),
			IsCrawlIncident:                   StringBool(incidents),
			IsCrawlIncidentAttachment:         StringBool(attachments),
			IsCrawlActiveIncident:             StringBool(incidents),
			IsCrawlInactiveIncident:           StringBool(incidents),
			ApplyACLForKnowledgeArticle:       true,
			ApplyACLForServiceCatalog:         true,
			ApplyACLForIncident:               true,
			IncidentStateType:                 []string{"Open", "Open - Unassigned", "Resolved", "All"},
			InclusionFileTypePatterns:         noPatterns(),
			ExclusionFileTypePatterns:         noPatterns(),
			InclusionFileNamePatterns:         noPatterns(),
			ExclusionFileNamePatterns:         noPatterns(),
		},
		RepositoryConfigurations: map[string]RepositoryConfiguration{
			"knowledgeArticle": repository(serviceNowKnowledgeArticleFields...),
			"attachment":       repository(serviceNowAttachmentFields...),
			"serviceCatalog":   repository(serviceNowServiceCatalogFields...),
			"incident":         repository(serviceNowIncidentFields...),
		},
	}
	meta := &cfg.ConnectionConfiguration.RepositoryEndpointMetadata
	meta.HostURL = ServiceNowHost(instance)
	meta.AuthType = "OAuth2"
	meta.ServiceNowInstanceVersion = "Others"
	return cfg
}
