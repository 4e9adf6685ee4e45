package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretARN = "arn:aws:secretsmanager:us-east-1:123456789012:secret:test"

func TestBuildConfigs_Deterministic(t *testing.T) {
	site := SharePointSite{SiteURL: "https://contoso.sharepoint.com/sites/hr", TenantID: "tenant", Bucket: "certs", ClientID: "client"}

	builders := map[string]func() DataSourceConfig{
		"salesforce": func() DataSourceConfig {
			return BuildSalesforceConfig("https://acme.my.salesforce.com", testSecretARN, SalesforceOptions{IncludeChatterFeeds: Bool(true)})
		},
		"servicenow": func() DataSourceConfig {
			return BuildServiceNowConfig("dev001", testSecretARN, ServiceNowOptions{})
		},
		"sharepoint": func() DataSourceConfig {
			cfg, err := BuildSharePointConfig(site, testSecretARN, SharePointOptions{})
			require.NoError(t, err)
			return cfg
		},
		"zendesk": func() DataSourceConfig {
			return BuildZendeskConfig("acme", testSecretARN, ZendeskContentBoth)
		},
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			first, err := MarshalConfig(build())
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				again, err := MarshalConfig(build())
				require.NoError(t, err)
				assert.Equal(t, string(first), string(again))
			}
		})
	}
}

func TestBuildSalesforceConfig_Defaults(t *testing.T) {
	cfg := BuildSalesforceConfig("https://acme.my.salesforce.com", testSecretARN, SalesforceOptions{})

	assert.Equal(t, DataSourceTypeSalesforce, cfg.Type)
	assert.Equal(t, SyncModeFullCrawl, cfg.SyncMode)
	assert.Equal(t, "https://acme.my.salesforce.com", cfg.ConnectionConfiguration.RepositoryEndpointMetadata.HostURL)

	for _, key := range []string{"knowledgeArticles", "case", "opportunity", "account", "contact"} {
		assert.Contains(t, cfg.RepositoryConfigurations, key)
	}
	assert.NotContains(t, cfg.RepositoryConfigurations, "chatter")

	props := cfg.AdditionalProperties
	assert.True(t, props.IsCrawlCase)
	assert.True(t, props.IsCrawlCaseAttachments)
	assert.False(t, props.IsCrawlChatter)
	assert.Equal(t, KnowledgeArticleStates{IsCrawlDraft: true, IsCrawlPublish: true}, props.IsCrawlKnowledgeArticles)
	assert.Equal(t, "50", props.MaxFileSizeInMegaBytes)
	assert.Equal(t, []string{".*"}, props.InclusionCaseFileNamePatterns)
}

func TestBuildSalesforceConfig_FlagsDriveObjects(t *testing.T) {
	cfg := BuildSalesforceConfig("https://acme.my.salesforce.com", testSecretARN, SalesforceOptions{
		SyncMode:            SyncModeChangeLog,
		IncludeCases:        Bool(false),
		IncludeChatterFeeds: Bool(true),
		CrawlAttachments:    Bool(false),
	})

	assert.Equal(t, SyncModeChangeLog, cfg.SyncMode)
	assert.NotContains(t, cfg.RepositoryConfigurations, "case")
	require.Contains(t, cfg.RepositoryConfigurations, "chatter")
	assert.Equal(t, "Body", cfg.RepositoryConfigurations["chatter"].FieldMappings[0].DataSourceFieldName)
	assert.False(t, cfg.AdditionalProperties.IsCrawlCase)
	assert.True(t, cfg.AdditionalProperties.IsCrawlChatter)
	assert.False(t, cfg.AdditionalProperties.IsCrawlChatterAttachments)
	assert.False(t, cfg.AdditionalProperties.IsCrawlAccountAttachments)
}

func TestSalesforceOptions_IncludedObjects(t *testing.T) {
	assert.Equal(t,
		[]string{"Knowledge Articles", "Cases", "Opportunities", "Accounts", "Contacts"},
		SalesforceOptions{}.IncludedObjects())

	assert.Equal(t,
		[]string{"Chatter Feeds"},
		SalesforceOptions{
			IncludeKnowledgeArticles: Bool(false),
			IncludeCases:             Bool(false),
			IncludeOpportunities:     Bool(false),
			IncludeAccounts:          Bool(false),
			IncludeContacts:          Bool(false),
			IncludeChatterFeeds:      Bool(true),
		}.IncludedObjects())
}

func TestBuildServiceNowConfig(t *testing.T) {
	cfg := BuildServiceNowConfig("dev001", testSecretARN, ServiceNowOptions{})

	raw, err := MarshalConfig(cfg)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "SERVICENOW", doc["type"])
	assert.Equal(t, "true", doc["enableIdentityCrawler"])
	assert.Equal(t, "FORCED_FULL_CRAWL", doc["syncMode"])
	assert.Equal(t, "1.0.0", doc["version"])

	meta := doc["connectionConfiguration"].(map[string]any)["repositoryEndpointMetadata"].(map[string]any)
	assert.Equal(t, "dev001.service-now.com", meta["hostUrl"])
	assert.Equal(t, "OAuth2", meta["authType"])

	props := doc["additionalProperties"].(map[string]any)
	assert.Equal(t, "true", props["isCrawlKnowledgeArticle"])
	assert.Equal(t, "false", props["isCrawlIncident"])
	assert.Equal(t, []any{}, props["inclusionFileTypePatterns"])

	repos := doc["repositoryConfigurations"].(map[string]any)
	for _, key := range []string{"knowledgeArticle", "attachment", "serviceCatalog", "incident"} {
		assert.Contains(t, repos, key)
	}
}

func TestServiceNowFieldTables(t *testing.T) {
	tables := map[string][]FieldMapping{
		"knowledgeArticle": serviceNowKnowledgeArticleFields,
		"attachment":       serviceNowAttachmentFields,
		"serviceCatalog":   serviceNowServiceCatalogFields,
		"incident":         serviceNowIncidentFields,
	}
	for name, fields := range tables {
		seen := map[string]bool{}
		for _, f := range fields {
			assert.NotEmpty(t, f.DataSourceFieldName, name)
			assert.False(t, seen[f.IndexFieldName], "%s: duplicate index field %s", name, f.IndexFieldName)
			seen[f.IndexFieldName] = true
			if f.IndexFieldType == FieldTypeDate {
				assert.Equal(t, serviceNowDateFormat, f.DateFieldFormat)
			} else {
				assert.Empty(t, f.DateFieldFormat)
			}
		}
	}
}

func TestBuildSharePointConfig(t *testing.T) {
	site := SharePointSite{SiteURL: "https://contoso.sharepoint.com/sites/hr", TenantID: "tenant-1", Bucket: "certs", ClientID: "app-1"}

	cfg, err := BuildSharePointConfig(site, testSecretARN, SharePointOptions{CrawlEvents: Bool(false)})
	require.NoError(t, err)

	meta := cfg.ConnectionConfiguration.RepositoryEndpointMetadata
	assert.Equal(t, "contoso", meta.Domain)
	assert.Equal(t, []string{"https://contoso.sharepoint.com/sites/hr"}, meta.SiteURLs)
	assert.Equal(t, "app-1/sharepoint.crt", meta.RepositoryAdditionalProperties.S3CertificateName)
	assert.Equal(t, SharePointAuthType, meta.RepositoryAdditionalProperties.AuthType)
	assert.Equal(t, StringBool(false), cfg.AdditionalProperties.CrawlEvents)
	assert.Equal(t, StringBool(true), cfg.AdditionalProperties.CrawlFiles)
	assert.Equal(t, "5", cfg.AdditionalProperties.MaxFileSizeInMegaBytes)
	assert.Len(t, cfg.RepositoryConfigurations, 6)
}

func TestBuildSharePointConfig_InvalidURL(t *testing.T) {
	_, err := BuildSharePointConfig(SharePointSite{SiteURL: "not a url"}, testSecretARN, SharePointOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildZendeskConfig(t *testing.T) {
	tests := []struct {
		content  ZendeskContent
		articles StringBool
		tickets  StringBool
	}{
		{ZendeskContentGuide, true, false},
		{ZendeskContentSupport, false, true},
		{ZendeskContentBoth, true, true},
		{"", true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.content), func(t *testing.T) {
			cfg := BuildZendeskConfig("acme", testSecretARN, tt.content)
			assert.Equal(t, tt.articles, cfg.AdditionalProperties.IsCrawlArticle)
			assert.Equal(t, tt.tickets, cfg.AdditionalProperties.IsCrawTicket)
			assert.Equal(t, tt.tickets, cfg.AdditionalProperties.IsCrawTicketComment)
			assert.Equal(t, "https://acme.zendesk.com/", cfg.ConnectionConfiguration.RepositoryEndpointMetadata.HostURL)
		})
	}
}

func TestBuildZendeskConfig_ArticleHasTitle(t *testing.T) {
	cfg := BuildZendeskConfig("acme", testSecretARN, ZendeskContentBoth)

	article := cfg.RepositoryConfigurations["article"].FieldMappings
	ticket := cfg.RepositoryConfigurations["ticket"].FieldMappings
	assert.Len(t, article, len(ticket)+1)
	assert.Equal(t, "_document_title", article[len(article)-1].IndexFieldName)

	raw, err := MarshalConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sinceDate":null`)
}

func TestParseZendeskContent(t *testing.T) {
	c, err := ParseZendeskContent("guide")
	require.NoError(t, err)
	assert.Equal(t, ZendeskContentGuide, c)

	c, err = ParseZendeskContent("")
	require.NoError(t, err)
	assert.Equal(t, ZendeskContentBoth, c)

	_, err = ParseZendeskContent("community")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConfigAsMap(t *testing.T) {
	doc, err := ConfigAsMap(BuildZendeskConfig("acme", testSecretARN, ZendeskContentGuide))
	require.NoError(t, err)
	assert.Equal(t, "ZENDESK", doc["type"])
	assert.Equal(t, testSecretARN, doc["secretArn"])
}
