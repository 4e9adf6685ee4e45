package domain

import (
	"fmt"
	"net/url"
	"strings"
)

const sharePointDateFormat = "yyyy-MM-dd'T'HH:mm:ss'Z'"

// SharePoint certificate object names, relative to the Azure app id.
const (
	SharePointCertificateFile = "sharepoint.crt"
	SharePointPrivateKeyFile  = "private.key"
	SharePointAuthType        = "OAuth2Certificate"
)

// SharePointCertificateKey is the object key of an app's certificate.
func SharePointCertificateKey(appID string) string {
	return appID + "/" + SharePointCertificateFile
}

// SharePointPrivateKeyKey is the object key of an app's private key.
func SharePointPrivateKeyKey(appID string) string {
	return appID + "/" + SharePointPrivateKeyFile
}

// SharePointSecretName names the data source secret of a SharePoint app.
func SharePointSecretName(domain, clientID string) string {
	return fmt.Sprintf("qbusiness-sharepoint-secret-%s-%s", domain, clientID)
}

// SharePointDomain returns the first label of a site URL host,
// e.g. "contoso" for https://contoso.sharepoint.com/sites/hr.
func SharePointDomain(siteURL string) (string, error) {
	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: invalid SharePoint URL %q", ErrInvalidInput, siteURL)
	}
	return strings.Split(u.Hostname(), ".")[0], nil
}

// SharePointOptions selects which SharePoint content is crawled.
// Nil flags default to on.
type SharePointOptions struct {
	CrawlFiles       *bool `json:"crawlFiles,omitempty"`
	CrawlPages       *bool `json:"crawlPages,omitempty"`
	CrawlEvents      *bool `json:"crawlEvents,omitempty"`
	CrawlComments    *bool `json:"crawlComments,omitempty"`
	CrawlLinks       *bool `json:"crawlLinks,omitempty"`
	CrawlAttachments *bool `json:"crawlAttachments,omitempty"`
	CrawlListData    *bool `json:"crawlListData,omitempty"`
}

// SharePointSite identifies the site and certificate a data source uses.
type SharePointSite struct {
	SiteURL  string
	TenantID string
	Bucket   string
	ClientID string
}

// SharePointConfig is the SHAREPOINT connector document.
type SharePointConfig struct {
	ConnectionConfiguration  SharePointConnection               `json:"connectionConfiguration"`
	AdditionalProperties     SharePointAdditionalProperties     `json:"additionalProperties"`
	EnableIdentityCrawler    StringBool                         `json:"enableIdentityCrawler"`
	SyncMode                 string                             `json:"syncMode"`
	Type                     DataSourceType                     `json:"type"`
	SecretArn                string                             `json:"secretArn"`
	RepositoryConfigurations map[string]RepositoryConfiguration `json:"repositoryConfigurations"`
}

func (SharePointConfig) DataSourceType() DataSourceType { return DataSourceTypeSharePoint }

type SharePointConnection struct {
	RepositoryEndpointMetadata SharePointEndpoint `json:"repositoryEndpointMetadata"`
}

type SharePointEndpoint struct {
	Domain                         string                   `json:"domain"`
	SiteURLs                       []string                 `json:"siteUrls"`
	RepositoryAdditionalProperties SharePointRepositoryAuth `json:"repositoryAdditionalProperties"`
	TenantID                       string                   `json:"tenantId"`
}

type SharePointRepositoryAuth struct {
	Version           string `json:"version"`
	OnPremVersion     string `json:"onPremVersion"`
	AuthType          string `json:"authType"`
	S3BucketName      string `json:"s3bucketName"`
	S3CertificateName string `json:"s3certificateName"`
}

type SharePointAdditionalProperties struct {
	CrawlFiles                          StringBool `json:"crawlFiles"`
	CrawlPages                          StringBool `json:"crawlPages"`
	CrawlEvents                         StringBool `json:"crawlEvents"`
	CrawlComments                       StringBool `json:"crawlComments"`
	CrawlLinks                          StringBool `json:"crawlLinks"`
	CrawlAttachment                     StringBool `json:"crawlAttachment"`
	CrawlListData                       StringBool `json:"crawlListData"`
	CrawlAcl                            StringBool `json:"crawlAcl"`
	IsCrawlLocalGroupMapping            StringBool `json:"isCrawlLocalGroupMapping"`
	IsCrawlAdGroupMapping               StringBool `json:"isCrawlAdGroupMapping"`
	EventTitleFilterRegEx               []string   `json:"eventTitleFilterRegEx"`
	PageTitleFilterRegEx                []string   `json:"pageTitleFilterRegEx"`
	LinkTitleFilterRegEx                []string   `json:"linkTitleFilterRegEx"`
	InclusionFilePath                   []string   `json:"inclusionFilePath"`
	ExclusionFilePath                   []string   `json:"exclusionFilePath"`
	InclusionFileTypePatterns           []string   `json:"inclusionFileTypePatterns"`
	ExclusionFileTypePatterns           []string   `json:"exclusionFileTypePatterns"`
	InclusionFileNamePatterns           []string   `json:"inclusionFileNamePatterns"`
	ExclusionFileNamePatterns           []string   `json:"exclusionFileNamePatterns"`
	InclusionOneNoteSectionNamePatterns []string   `json:"inclusionOneNoteSectionNamePatterns"`
	ExclusionOneNoteSectionNamePatterns []string   `json:"exclusionOneNoteSectionNamePatterns"`
	InclusionOneNotePageNamePatterns    []string   `json:"inclusionOneNotePageNamePatterns"`
	ExclusionOneNotePageNamePatterns    []string   `json:"exclusionOneNotePageNamePatterns"`
	ProxyPort                           string     `json:"proxyPort"`
	FieldForUserID                      string     `json:"fieldForUserId"`
	IncludeSupportedFileType            StringBool `json:"includeSupportedFileType"`
	MaxFileSizeInMegaBytes              string     `json:"maxFileSizeInMegaBytes"`
	EnableDeletionProtection            StringBool `json:"enableDeletionProtection"`
	DeletionProtectionThreshold         string     `json:"deletionProtectionThreshold"`
}

// BuildSharePointConfig maps a site and options onto the SHAREPOINT connector
// document, authenticating with the app certificate stored in the bucket.
func BuildSharePointConfig(site SharePointSite, secretARN string, opts SharePointOptions) (SharePointConfig, error) {
	domain, err := SharePointDomain(site.SiteURL)
	if err != nil {
		return SharePointConfig{}, err
	}

	created := func(source string) FieldMapping { return dateField(source, "_created_at", sharePointDateFormat) }
	updated := dateField("lastModifiedDateTime", "_last_updated_at", sharePointDateFormat)
	title := stringField("title", "_document_title")
	uri := stringField("sourceUri", "_source_uri")
	category := stringField("category", "_category")
	authors := listField("author", "_authors")

	cfg := SharePointConfig{
		ConnectionConfiguration: SharePointConnection{
			RepositoryEndpointMetadata: SharePointEndpoint{
				Domain:   domain,
				SiteURLs: []string{site.SiteURL},
				RepositoryAdditionalProperties: SharePointRepositoryAuth{
					Version:           "Online",
					AuthType:          SharePointAuthType,
					S3BucketName:      site.Bucket,
					S3CertificateName: SharePointCertificateKey(site.ClientID),
				},
				TenantID: site.TenantID,
			},
		},
		AdditionalProperties: SharePointAdditionalProperties{
			CrawlFiles:                          StringBool(boolOr(opts.CrawlFiles, true)),
			CrawlPages:                          StringBool(boolOr(opts.CrawlPages, true)),
			CrawlEvents:                         StringBool(boolOr(opts.CrawlEvents, true)),
			CrawlComments:                       StringBool(boolOr(opts.CrawlComments, true)),
			CrawlLinks:                          StringBool(boolOr(opts.CrawlLinks, true)),
			CrawlAttachment:                     StringBool(boolOr(opts.CrawlAttachments, true)),
			CrawlListData:                       StringBool(boolOr(opts.CrawlListData, true)),
			CrawlAcl:                            true,
			IsCrawlLocalGroupMapping:            true,
			IsCrawlAdGroupMapping:               false,
			EventTitleFilterRegEx:               noPatterns(),
			PageTitleFilterRegEx:                noPatterns(),
			LinkTitleFilterRegEx:                noPatterns(),
			InclusionFilePath:                   noPatterns(),
			ExclusionFilePath:                   noPatterns(),
			InclusionFileTypePatterns:           noPatterns(),
			ExclusionFileTypePatterns:           noPatterns(),
			InclusionFileNamePatterns:           noPatterns(),
			ExclusionFileNamePatterns:           noPatterns(),
			InclusionOneNoteSectionNamePatterns: noPatterns(),
			ExclusionOneNoteSectionNamePatterns: noPatterns(),
			InclusionOneNotePageNamePatterns:    noPatterns(),
			ExclusionOneNotePageNamePatterns:    noPatterns(),
			FieldForUserID:                      "uuid",
			MaxFileSizeInMegaBytes:              "5",
			DeletionProtectionThreshold:         "0",
		},
		EnableIdentityCrawler: true,
		SyncMode:              SyncModeForcedFullCrawl,
		Type:                  DataSourceTypeSharePoint,
		SecretArn:             secretARN,
		RepositoryConfigurations: map[string]RepositoryConfiguration{
			"file":       repository(title, updated, uri, created("createdAt"), authors, category),
			"event":      repository(title, updated, uri, created("createdDate"), category),
			"page":       repository(created("createdDateTime"), updated, title, uri, category),
			"link":       repository(created("createdAt"), updated, title, uri, category),
			"attachment": repository(created("parentCreatedDate"), uri, category),
			"comment":    repository(created("createdDateTime"), uri, authors, category),
		},
	}
	return cfg, nil
}
