package shopify

import (
	"fmt"
	"strings"
)

// Config is the process-wide upstream configuration. It is built once at
// startup and handed to NewClient.
type Config struct {
	// Shop is the store subdomain ("astragarde") or a full host
	// ("astragarde.myshopify.com").
	Shop               string
	APIVersion         string
	PublicAccessToken  string
	PrivateAccessToken string

	// Endpoint overrides the URL derived from Shop and APIVersion.
	Endpoint string
}

// Validate reports every missing setting at once.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Shop) == "" && c.Endpoint == "" {
		missing = append(missing, "shop")
	}
	if strings.TrimSpace(c.APIVersion) == "" {
		missing = append(missing, "api version")
	}
	if c.PublicAccessToken == "" && c.PrivateAccessToken == "" {
		missing = append(missing, "public or private access token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("shopify config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// URL returns the storefront GraphQL endpoint.
func (c Config) URL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	host := strings.TrimSpace(c.Shop)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimSuffix(host, "/")
	if !strings.Contains(host, ".") {
		host += ".myshopify.com"
	}
	return fmt.Sprintf("https://%s/api/%s/graphql.json", host, strings.TrimSpace(c.APIVersion))
}

// usesPrivateToken reports whether requests authenticate server-side. Private
// tokens take precedence over public ones.
func (c Config) usesPrivateToken() bool {
	return c.PrivateAccessToken != ""
}
