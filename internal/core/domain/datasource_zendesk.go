package domain

import (
	"fmt"
	"strings"
)

const zendeskDateFormat = "dd-MM-yyyy HH:mm:ss"

// ZendeskContent selects Help Center articles, Support tickets or both.
type ZendeskContent string

const (
	ZendeskContentGuide   ZendeskContent = "GUIDE"
	ZendeskContentSupport ZendeskContent = "SUPPORT"
	ZendeskContentBoth    ZendeskContent = "BOTH"
)

// ParseZendeskContent validates a content selector; empty means BOTH.
func ParseZendeskContent(s string) (ZendeskContent, error) {
	switch c := ZendeskContent(strings.ToUpper(strings.TrimSpace(s))); c {
	case "":
		return ZendeskContentBoth, nil
	case ZendeskContentGuide, ZendeskContentSupport, ZendeskContentBoth:
		return c, nil
	default:
		return "", fmt.Errorf("%w: dataSourceType must be GUIDE, SUPPORT or BOTH", ErrInvalidInput)
	}
}

// ZendeskHostURL returns the base URL of a Zendesk subdomain.
func ZendeskHostURL(subdomain string) string {
	return fmt.Sprintf("https://%s.zendesk.com/", subdomain)
}

// ZendeskConfig is the ZENDESK connector document.
type ZendeskConfig struct {
	ConnectionConfiguration  ZendeskConnection                  `json:"connectionConfiguration"`
	AdditionalProperties     ZendeskAdditionalProperties        `json:"additionalProperties"`
	EnableIdentityCrawler    bool                               `json:"enableIdentityCrawler"`
	SyncMode                 string                             `json:"syncMode"`
	Type                     DataSourceType                     `json:"type"`
	SecretArn                string                             `json:"secretArn"`
	RepositoryConfigurations map[string]RepositoryConfiguration `json:"repositoryConfigurations"`
}

func (ZendeskConfig) DataSourceType() DataSourceType { return DataSourceTypeZendesk }

type ZendeskConnection struct {
	RepositoryEndpointMetadata struct {
		HostURL  string `json:"hostUrl"`
		AuthType string `json:"authType"`
	} `json:"repositoryEndpointMetadata"`
}

// ZendeskAdditionalProperties keeps the connector's own key spelling
// (isCrawTicket).
type ZendeskAdditionalProperties struct {
	OrganizationNameFilter        []string   `json:"organizationNameFilter"`
	SinceDate                     *string    `json:"sinceDate"`
	IsCrawTicket                  StringBool `json:"isCrawTicket"`
	IsCrawTicketComment           StringBool `json:"isCrawTicketComment"`
	IsCrawTicketCommentAttachment StringBool `json:"isCrawTicketCommentAttachment"`
	IsCrawlArticle                StringBool `json:"isCrawlArticle"`
	IsCrawlArticleAttachment      StringBool `json:"isCrawlArticleAttachment"`
	IsCrawlArticleComment         StringBool `json:"isCrawlArticleComment"`
	IsCrawlCommunityTopic         StringBool `json:"isCrawlCommunityTopic"`
	IsCrawlCommunityPost          StringBool `json:"isCrawlCommunityPost"`
	IsCrawlCommunityPostComment   StringBool `json:"isCrawlCommunityPostComment"`
	IsCrawlAcl                    bool       `json:"isCrawlAcl"`
	FieldForUserID                string     `json:"fieldForUserId"`
	InclusionPatterns             []string   `json:"inclusionPatterns"`
	ExclusionPatterns             []string   `json:"exclusionPatterns"`
	MaxFileSizeInMegaBytes        string     `json:"maxFileSizeInMegaBytes"`
	IncludeSupportedFileType      bool       `json:"includeSupportedFileType"`
	EnableDeletionProtection      bool       `json:"enableDeletionProtection"`
	DeletionProtectionThreshold   string     `json:"deletionProtectionThreshold"`
}

// BuildZendeskConfig maps a subdomain and content selector onto the ZENDESK
// connector document. The secret holds an OAuth access token.
func BuildZendeskConfig(subdomain, secretARN string, content ZendeskContent) ZendeskConfig {
	if content == "" {
		content = ZendeskContentBoth
	}
	articles := content == ZendeskContentGuide || content == ZendeskContentBoth
	tickets := content == ZendeskContentSupport || content == ZendeskContentBoth

	common := []FieldMapping{
		stringField("category", "_category"),
		stringField("sourceUrl", "_source_uri"),
		dateField("createdAt", "_created_at", zendeskDateFormat),
		dateField("updatedAt", "_last_updated_at", zendeskDateFormat),
		listField("authors", "_authors"),
	}

	cfg := ZendeskConfig{
		AdditionalProperties: ZendeskAdditionalProperties{
			OrganizationNameFilter:      noPatterns(),
			IsCrawTicket:                StringBool(tickets),
			IsCrawTicketComment:         StringBool(tickets),
			IsCrawlArticle:              StringBool(articles),
			IsCrawlAcl:                  true,
			FieldForUserID:              "uuid",
			InclusionPatterns:           noPatterns(),
			ExclusionPatterns:           noPatterns(),
			MaxFileSizeInMegaBytes:      "50",
			DeletionProtectionThreshold: "0",
		},
		EnableIdentityCrawler: true,
		SyncMode:              SyncModeForcedFullCrawl,
		Type:                  DataSourceTypeZendesk,
		SecretArn:             secretARN,
		RepositoryConfigurations: map[string]RepositoryConfiguration{
			"ticket":        repository(common...),
			"ticketComment": repository(common...),
			"article":       repository(append(append([]FieldMapping(nil), common...), stringField("title", "_document_title"))...),
		},
	}
	meta := &cfg.ConnectionConfiguration.RepositoryEndpointMetadata
	meta.HostURL = ZendeskHostURL(subdomain)
	meta.AuthType = "Oauth2-ImplicitGrantFlow"
	return cfg
}
